package message

import (
	"errors"
	"time"

	"github.com/hugohenrick/crm-atendimento/pkg/identifier"
)

var (
	ErrMessageNotFound      = errors.New("mensagem não encontrada")
	ErrEmptyConversationKey = errors.New("chave da conversa não informada")
	ErrInvalidSender        = errors.New("remetente inválido")
)

// Sender identifica quem escreveu a mensagem
type Sender string

const (
	SenderUser Sender = "user" // Operador do painel
	SenderAI   Sender = "ai"   // Agente do webhook
)

// Valid verifica se o remetente é conhecido
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// File representa um anexo bruto de uma mensagem recém composta
type File struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data []byte `json:"-"`
}

// FileMetadata é o que é persistido de cada anexo
type FileMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Message representa um turno da conversa
type Message struct {
	ID              string         `json:"id"`
	ConversationKey string         `json:"telefone,omitempty"`
	Content         string         `json:"content"`
	Sender          Sender         `json:"sender"`
	Timestamp       time.Time      `json:"timestamp"`
	IsFavorite      bool           `json:"isFavorite"`
	Files           []File         `json:"-"`           // Só existe na sessão em que foi composta
	Attachments     []FileMetadata `json:"attachments"` // Metadados dos anexos
}

// NewMessage cria uma nova mensagem com ID e horário gerados localmente
func NewMessage(content string, sender Sender, files []File) *Message {
	m := &Message{
		ID:        identifier.New(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Files:     files,
	}
	m.Attachments = m.Metadata()
	return m
}

// Metadata converte os anexos brutos em metadados persistíveis
func (m *Message) Metadata() []FileMetadata {
	if len(m.Files) == 0 {
		return nil
	}

	meta := make([]FileMetadata, 0, len(m.Files))
	for _, f := range m.Files {
		meta = append(meta, FileMetadata{Name: f.Name, Type: f.Type, Size: f.Size})
	}
	return meta
}
