package dto

import (
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/chat"
	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
)

// SendMessageRequest representa o envio de uma mensagem em JSON
type SendMessageRequest struct {
	Mensagem string `json:"mensagem" form:"mensagem"`
}

// SendMessageResponse devolve o ID da mensagem do operador
type SendMessageResponse struct {
	ID      string `json:"id,omitempty"`
	Ignored bool   `json:"ignored,omitempty"`
}

// MessageResponse representa uma mensagem da conversa
type MessageResponse struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Sender     message.Sender         `json:"sender"`
	Timestamp  time.Time              `json:"timestamp"`
	IsFavorite bool                   `json:"isFavorite"`
	Files      []message.FileMetadata `json:"files,omitempty"`
}

// FilePreviewResponse representa um arquivo aguardando envio
type FilePreviewResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ContentType string           `json:"contentType"`
	Size        int64            `json:"size"`
	Type        chat.PreviewType `json:"type"`
	PreviewURL  string           `json:"previewUrl"`
}

// ConversationStateResponse é o estado completo de uma conversa
type ConversationStateResponse struct {
	Telefone      string                `json:"telefone"`
	Messages      []MessageResponse     `json:"messages"`
	IsLoading     bool                  `json:"isLoading"`
	StagedFiles   []FilePreviewResponse `json:"stagedFiles"`
	Notifications []chat.Notification   `json:"notifications"`
}

// FavoriteResponse é o novo estado do favorito
type FavoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

// CopyResponse devolve o texto copiado
type CopyResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ClearHistoryResponse informa quantas mensagens foram apagadas
type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

// ToMessageResponse converte uma mensagem para resposta
func ToMessageResponse(m message.Message) MessageResponse {
	files := m.Attachments
	if len(files) == 0 {
		files = m.Metadata()
	}
	return MessageResponse{
		ID:         m.ID,
		Content:    m.Content,
		Sender:     m.Sender,
		Timestamp:  m.Timestamp,
		IsFavorite: m.IsFavorite,
		Files:      files,
	}
}

// ToMessageListResponse converte a lista de mensagens
func ToMessageListResponse(msgs []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToMessageResponse(m))
	}
	return out
}

// ToFilePreviewListResponse converte os arquivos em espera
func ToFilePreviewListResponse(previews []chat.FilePreview) []FilePreviewResponse {
	out := make([]FilePreviewResponse, 0, len(previews))
	for _, p := range previews {
		out = append(out, FilePreviewResponse{
			ID:          p.ID,
			Name:        p.Name,
			ContentType: p.ContentType,
			Size:        p.Size,
			Type:        p.Type,
			PreviewURL:  p.PreviewURL,
		})
	}
	return out
}

// ToConversationStateResponse monta o estado da sessão
func ToConversationStateResponse(s *chat.Session) ConversationStateResponse {
	notifications := s.Store.Notifications()
	return ConversationStateResponse{
		Telefone:      s.Key,
		Messages:      ToMessageListResponse(s.Store.Messages()),
		IsLoading:     s.Store.IsLoading(),
		StagedFiles:   ToFilePreviewListResponse(s.Staging.List()),
		Notifications: notifications,
	}
}
