package message

import (
	"context"
)

// Repository define a interface para operações de repositório do histórico de mensagens
type Repository interface {
	// Insert salva uma nova mensagem na conversa informada
	Insert(ctx context.Context, m *Message, conversationKey string) error

	// UpdateFavorite atualiza o marcador de favorito
	UpdateFavorite(ctx context.Context, id string, isFavorite bool) error

	// Delete remove uma mensagem
	Delete(ctx context.Context, id string) error

	// ListByConversation retorna o histórico da conversa em ordem cronológica
	ListByConversation(ctx context.Context, conversationKey string) ([]Message, error)

	// CountByConversation conta quantas mensagens a conversa tem
	CountByConversation(ctx context.Context, conversationKey string) (int, error)

	// DeleteConversation apaga todo o histórico da conversa
	DeleteConversation(ctx context.Context, conversationKey string) (int64, error)
}
