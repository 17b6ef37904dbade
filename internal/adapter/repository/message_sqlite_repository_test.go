package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/internal/infrastructure/database"
)

const telefone = "5511999999999"

func newTestRepository(t *testing.T) message.Repository {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteMessageRepository(db)
}

func TestSQLiteInsertAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := message.NewMessage("Olá", message.SenderUser, []message.File{{Name: "foto.png", Type: "image/png", Size: 10, Data: []byte("0123456789")}})
	second := message.NewMessage("Oi! Como posso ajudar?", message.SenderAI, nil)
	second.Timestamp = first.Timestamp.Add(time.Second)

	// inseridas fora de ordem para verificar a ordenação
	require.NoError(t, repo.Insert(ctx, second, telefone))
	require.NoError(t, repo.Insert(ctx, first, telefone))
	require.NoError(t, repo.Insert(ctx, message.NewMessage("outra conversa", message.SenderUser, nil), "5521888888888"))

	history, err := repo.ListByConversation(ctx, telefone)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, message.SenderUser, history[0].Sender)
	assert.Equal(t, []message.FileMetadata{{Name: "foto.png", Type: "image/png", Size: 10}}, history[0].Attachments)
	assert.Nil(t, history[0].Files, "anexos binários não são restaurados")
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, message.SenderAI, history[1].Sender)
	assert.True(t, history[1].Timestamp.Equal(second.Timestamp))

	count, err := repo.CountByConversation(ctx, telefone)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteListEmptyConversation(t *testing.T) {
	repo := newTestRepository(t)

	history, err := repo.ListByConversation(context.Background(), "5500000000000")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestSQLiteInsertRequiresConversationKey(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Insert(context.Background(), message.NewMessage("x", message.SenderUser, nil), "  ")
	assert.ErrorIs(t, err, message.ErrEmptyConversationKey)
}

func TestSQLiteFavoriteAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	m := message.NewMessage("resposta", message.SenderAI, nil)
	require.NoError(t, repo.Insert(ctx, m, telefone))

	require.NoError(t, repo.UpdateFavorite(ctx, m.ID, true))
	history, err := repo.ListByConversation(ctx, telefone)
	require.NoError(t, err)
	assert.True(t, history[0].IsFavorite)

	require.NoError(t, repo.Delete(ctx, m.ID))
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), message.ErrMessageNotFound)
	assert.ErrorIs(t, repo.UpdateFavorite(ctx, m.ID, false), message.ErrMessageNotFound)
}

func TestSQLiteDeleteConversation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, message.NewMessage("m", message.SenderUser, nil), telefone))
	}

	n, err := repo.DeleteConversation(ctx, telefone)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	count, err := repo.CountByConversation(ctx, telefone)
	require.NoError(t, err)
	assert.Zero(t, count)
}
