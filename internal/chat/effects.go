package chat

import (
	"context"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
)

// NotificationLevel classifica os avisos transitórios exibidos ao operador
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notification é um aviso transitório, não persistido
type Notification struct {
	Level       NotificationLevel `json:"level"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Effects recebe os efeitos colaterais das mudanças de estado do chat
type Effects interface {
	MessageAdded(conversationKey string, m message.Message)
	MessageRemoved(conversationKey, id string)
	FavoriteChanged(conversationKey, id string, isFavorite bool)
	ScrollToBottom(conversationKey string)
	LoadingChanged(conversationKey string, loading bool)
	Notify(conversationKey string, n Notification)
}

// Clipboard copia o conteúdo de uma mensagem para a área de transferência do painel
type Clipboard interface {
	Write(ctx context.Context, conversationKey, text string) error
}

// NopEffects descarta todos os efeitos
type NopEffects struct{}

func (NopEffects) MessageAdded(string, message.Message) {}
func (NopEffects) MessageRemoved(string, string) {}
func (NopEffects) FavoriteChanged(string, string, bool) {}
func (NopEffects) ScrollToBottom(string) {}
func (NopEffects) LoadingChanged(string, bool) {}
func (NopEffects) Notify(string, Notification) {}
