package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
)

// PostgresMessageRepository implementa message.Repository sobre o PostgreSQL
type PostgresMessageRepository struct {
	db *pgxpool.Pool
}

// NewPostgresMessageRepository cria uma nova instância de PostgresMessageRepository
func NewPostgresMessageRepository(db *pgxpool.Pool) message.Repository {
	return &PostgresMessageRepository{
		db: db,
	}
}

// Insert implementa message.Repository.Insert
func (r *PostgresMessageRepository) Insert(ctx context.Context, m *message.Message, conversationKey string) error {
	if strings.TrimSpace(conversationKey) == "" {
		return message.ErrEmptyConversationKey
	}

	files, err := encodeFiles(m)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO chat_messages (id, conversation_key, content, sender, timestamp, is_favorite, files)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		m.ID,
		conversationKey,
		m.Content,
		string(m.Sender),
		m.Timestamp,
		m.IsFavorite,
		files,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar mensagem: %w", err)
	}

	return nil
}

// UpdateFavorite implementa message.Repository.UpdateFavorite
func (r *PostgresMessageRepository) UpdateFavorite(ctx context.Context, id string, isFavorite bool) error {
	result, err := r.db.Exec(ctx, `UPDATE chat_messages SET is_favorite = $1 WHERE id = $2`, isFavorite, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar favorito: %w", err)
	}

	if result.RowsAffected() == 0 {
		return message.ErrMessageNotFound
	}

	return nil
}

// Delete implementa message.Repository.Delete
func (r *PostgresMessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar mensagem: %w", err)
	}

	if result.RowsAffected() == 0 {
		return message.ErrMessageNotFound
	}

	return nil
}

// ListByConversation implementa message.Repository.ListByConversation
func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationKey string) ([]message.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, content, sender, timestamp, is_favorite, files
		FROM chat_messages
		WHERE conversation_key = $1
		ORDER BY timestamp ASC
	`, conversationKey)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	defer rows.Close()

	messages := make([]message.Message, 0)
	for rows.Next() {
		var (
			msg       message.Message
			sender    string
			filesJSON []byte
		)
		if err := rows.Scan(&msg.ID, &msg.Content, &sender, &msg.Timestamp, &msg.IsFavorite, &filesJSON); err != nil {
			return nil, fmt.Errorf("erro ao ler mensagem: %w", err)
		}

		msg.Sender = message.Sender(sender)
		msg.ConversationKey = conversationKey
		if msg.Attachments, err = decodeFiles(filesJSON); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}

	return messages, nil
}

// CountByConversation implementa message.Repository.CountByConversation
func (r *PostgresMessageRepository) CountByConversation(ctx context.Context, conversationKey string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_messages WHERE conversation_key = $1`, conversationKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar mensagens: %w", err)
	}
	return count, nil
}

// DeleteConversation implementa message.Repository.DeleteConversation
func (r *PostgresMessageRepository) DeleteConversation(ctx context.Context, conversationKey string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE conversation_key = $1`, conversationKey)
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar histórico: %w", err)
	}
	return result.RowsAffected(), nil
}

// encodeFiles converte os anexos em JSON de metadados; nil quando não há anexos
func encodeFiles(m *message.Message) ([]byte, error) {
	meta := m.Metadata()
	if len(meta) == 0 {
		meta = m.Attachments
	}
	if len(meta) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("erro ao converter anexos para JSON: %w", err)
	}
	return data, nil
}

func decodeFiles(data []byte) ([]message.FileMetadata, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var meta []message.FileMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("erro ao converter anexos: %w", err)
	}
	return meta, nil
}
