// Package identifier gera os identificadores das mensagens do chat.
package identifier

import "github.com/google/uuid"

// New retorna um UUID v4 compatível com a chave primária da tabela de mensagens
func New() string {
	return uuid.New().String()
}

// Valid verifica se o valor informado é um UUID
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
