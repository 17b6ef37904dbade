package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
)

// SQLiteMessageRepository implementa message.Repository sobre o SQLite local
type SQLiteMessageRepository struct {
	db *sql.DB
}

// NewSQLiteMessageRepository cria uma nova instância de SQLiteMessageRepository
func NewSQLiteMessageRepository(db *sql.DB) message.Repository {
	return &SQLiteMessageRepository{db: db}
}

// Insert implementa message.Repository.Insert
func (r *SQLiteMessageRepository) Insert(ctx context.Context, m *message.Message, conversationKey string) error {
	if strings.TrimSpace(conversationKey) == "" {
		return message.ErrEmptyConversationKey
	}

	files, err := encodeFiles(m)
	if err != nil {
		return err
	}

	var filesValue interface{}
	if files != nil {
		filesValue = string(files)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, conversation_key, content, sender, timestamp, is_favorite, files)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, conversationKey, m.Content, string(m.Sender), m.Timestamp.UnixNano(), m.IsFavorite, filesValue)
	if err != nil {
		return fmt.Errorf("erro ao salvar mensagem: %w", err)
	}
	return nil
}

// UpdateFavorite implementa message.Repository.UpdateFavorite
func (r *SQLiteMessageRepository) UpdateFavorite(ctx context.Context, id string, isFavorite bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE chat_messages SET is_favorite = ? WHERE id = ?`, isFavorite, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar favorito: %w", err)
	}
	return requireAffected(result)
}

// Delete implementa message.Repository.Delete
func (r *SQLiteMessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar mensagem: %w", err)
	}
	return requireAffected(result)
}

// ListByConversation implementa message.Repository.ListByConversation
func (r *SQLiteMessageRepository) ListByConversation(ctx context.Context, conversationKey string) ([]message.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, sender, timestamp, is_favorite, files
		FROM chat_messages
		WHERE conversation_key = ?
		ORDER BY timestamp ASC
	`, conversationKey)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	defer rows.Close()

	messages := make([]message.Message, 0)
	for rows.Next() {
		var (
			msg    message.Message
			sender string
			nanos  int64
			files  sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.Content, &sender, &nanos, &msg.IsFavorite, &files); err != nil {
			return nil, fmt.Errorf("erro ao ler mensagem: %w", err)
		}

		msg.Sender = message.Sender(sender)
		msg.Timestamp = time.Unix(0, nanos)
		msg.ConversationKey = conversationKey
		if files.Valid {
			if msg.Attachments, err = decodeFiles([]byte(files.String)); err != nil {
				return nil, err
			}
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}
	return messages, nil
}

// CountByConversation implementa message.Repository.CountByConversation
func (r *SQLiteMessageRepository) CountByConversation(ctx context.Context, conversationKey string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages WHERE conversation_key = ?`, conversationKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar mensagens: %w", err)
	}
	return count, nil
}

// DeleteConversation implementa message.Repository.DeleteConversation
func (r *SQLiteMessageRepository) DeleteConversation(ctx context.Context, conversationKey string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE conversation_key = ?`, conversationKey)
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar histórico: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao contar linhas removidas: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao contar linhas afetadas: %w", err)
	}
	if n == 0 {
		return message.ErrMessageNotFound
	}
	return nil
}
