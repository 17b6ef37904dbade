package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

func TestStoreAddKeepsCallOrder(t *testing.T) {
	repo := newMemoryRepository()
	store, effects := newTestStore(t, repo)

	first := store.Add("um", message.SenderUser, nil, telefone)
	second := store.Add("dois", message.SenderAI, nil, telefone)
	third := store.Add("três", message.SenderUser, nil, telefone)

	msgs := store.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{first, second, third}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	assert.Equal(t, 3, effects.scrollCount())

	store.Flush()
	assert.Equal(t, 3, repo.len())
}

func TestStoreAddWithoutKeyIsNotPersisted(t *testing.T) {
	repo := newMemoryRepository()
	store, _ := newTestStore(t, repo)

	store.Add("rascunho", message.SenderUser, nil, "")
	store.Flush()

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, repo.len())
}

func TestStoreAddPersistenceFailureKeepsMessage(t *testing.T) {
	repo := newMemoryRepository()
	repo.setFailures(true, false, false, false)
	store, _ := newTestStore(t, repo)

	id := store.Add("Olá", message.SenderUser, nil, telefone)
	store.Flush()

	_, ok := store.Get(id)
	assert.True(t, ok)
	assert.Equal(t, LevelError, lastNotification(store).Level)
}

func TestStoreAddAttachesFileMetadata(t *testing.T) {
	repo := newMemoryRepository()
	store, _ := newTestStore(t, repo)

	files := []message.File{{Name: "nota.pdf", Type: "application/pdf", Size: 3, Data: []byte("pdf")}}
	id := store.Add("segue", message.SenderUser, files, telefone)
	store.Flush()

	row, ok := repo.get(id)
	require.True(t, ok)
	assert.Equal(t, []message.FileMetadata{{Name: "nota.pdf", Type: "application/pdf", Size: 3}}, row.Attachments)
	assert.Nil(t, row.Files)
}

func TestStoreToggleFavoriteIsInvolution(t *testing.T) {
	for _, failing := range []bool{false, true} {
		repo := newMemoryRepository()
		repo.setFailures(false, failing, false, false)
		store, _ := newTestStore(t, repo)

		id := store.Add("Olá", message.SenderUser, nil, telefone)

		favorite, ok := store.ToggleFavorite(id)
		require.True(t, ok)
		assert.True(t, favorite)

		favorite, ok = store.ToggleFavorite(id)
		require.True(t, ok)
		assert.False(t, favorite)

		m, _ := store.Get(id)
		assert.False(t, m.IsFavorite)

		store.Flush()
		if failing {
			assert.Equal(t, LevelError, lastNotification(store).Level)
		} else {
			row, _ := repo.get(id)
			assert.False(t, row.IsFavorite)
		}
	}
}

func TestStoreToggleFavoriteIsNotRolledBack(t *testing.T) {
	repo := newMemoryRepository()
	repo.setFailures(false, true, false, false)
	store, _ := newTestStore(t, repo)

	id := store.Add("Olá", message.SenderUser, nil, telefone)
	store.ToggleFavorite(id)
	store.Flush()

	m, _ := store.Get(id)
	assert.True(t, m.IsFavorite)
}

func TestStoreToggleFavoriteUnknownID(t *testing.T) {
	store, _ := newTestStore(t, newMemoryRepository())

	_, ok := store.ToggleFavorite("inexistente")
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	repo := newMemoryRepository()
	store, effects := newTestStore(t, repo)

	keep := store.Add("fica", message.SenderUser, nil, telefone)
	gone := store.Add("sai", message.SenderAI, nil, telefone)

	require.NoError(t, store.Delete(context.Background(), gone))

	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(keep)
	assert.True(t, ok)
	_, ok = repo.get(gone)
	assert.False(t, ok)
	assert.Equal(t, []string{gone}, effects.removed)
	assert.Equal(t, LevelSuccess, lastNotification(store).Level)
}

func TestStoreDeleteFailureKeepsMessage(t *testing.T) {
	repo := newMemoryRepository()
	store, _ := newTestStore(t, repo)

	id := store.Add("Olá", message.SenderUser, nil, telefone)
	store.Flush()
	repo.setFailures(false, false, true, false)

	err := store.Delete(context.Background(), id)
	assert.True(t, errors.Is(err, ErrDeleteFailed))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, LevelError, lastNotification(store).Level)
}

func TestStoreDeleteNeverPersistedMessage(t *testing.T) {
	store, _ := newTestStore(t, newMemoryRepository())

	id := store.Add("local", message.SenderUser, nil, "")

	require.NoError(t, store.Delete(context.Background(), id))
	assert.Equal(t, 0, store.Len())
}

func TestStoreDeleteUnknownID(t *testing.T) {
	store, _ := newTestStore(t, newMemoryRepository())
	store.Add("Olá", message.SenderUser, nil, telefone)

	err := store.Delete(context.Background(), "inexistente")
	assert.ErrorIs(t, err, message.ErrMessageNotFound)
	assert.Equal(t, 1, store.Len())
}

func TestStoreCopyToClipboard(t *testing.T) {
	log := logger.NewNop()
	clipboard := &memoryClipboard{}
	store := NewStore(telefone, nil, nil, clipboard, log)

	id := store.Add("copie isto", message.SenderAI, nil, "")
	require.NoError(t, store.CopyToClipboard(context.Background(), id))
	assert.Equal(t, "copie isto", clipboard.text)
	assert.Equal(t, LevelSuccess, lastNotification(store).Level)

	clipboard.err = errors.New("negado")
	assert.ErrorIs(t, store.CopyToClipboard(context.Background(), id), ErrCopyFailed)
	assert.Equal(t, LevelError, lastNotification(store).Level)
	assert.Equal(t, 1, store.Len())
}

func TestStoreLoadHistory(t *testing.T) {
	repo := newMemoryRepository()
	store, effects := newTestStore(t, repo)

	// a leitura espera a gravação ainda pendente
	id := store.Add("Olá", message.SenderUser, nil, telefone)
	require.NoError(t, store.LoadHistory(context.Background(), telefone))

	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, id, msgs[0].ID)
	assert.Equal(t, 2, effects.scrollCount())
}

func TestStoreLoadHistoryEmpty(t *testing.T) {
	store, _ := newTestStore(t, newMemoryRepository())
	store.Add("não gravada", message.SenderUser, nil, "")

	require.NoError(t, store.LoadHistory(context.Background(), "5500000000000"))
	assert.NotNil(t, store.Messages())
	assert.Empty(t, store.Messages())

	require.NoError(t, store.LoadHistory(context.Background(), ""))
	assert.Empty(t, store.Messages())
}

func TestStoreLoadHistoryFailureKeepsMessages(t *testing.T) {
	repo := newMemoryRepository()
	store, _ := newTestStore(t, repo)

	store.Add("Olá", message.SenderUser, nil, telefone)
	store.Add("Oi! Como posso ajudar?", message.SenderAI, nil, telefone)
	store.Flush()

	repo.setFailures(false, false, false, true)
	require.NoError(t, store.LoadHistory(context.Background(), telefone))

	assert.Equal(t, []string{"user:Olá", "ai:Oi! Como posso ajudar?"}, contents(store.Messages()))
	assert.Equal(t, LevelError, lastNotification(store).Level)
}

func TestStoreLoadHistoryKeepsMessagesAddedDuringRead(t *testing.T) {
	repo := newMemoryRepository()
	store, effects := newTestStore(t, repo)

	first := store.Add("Olá", message.SenderUser, nil, telefone)
	store.Flush()

	reading := make(chan struct{})
	release := make(chan struct{})
	repo.setBeforeList(func() {
		close(reading)
		<-release
	})

	done := make(chan error, 1)
	go func() { done <- store.LoadHistory(context.Background(), telefone) }()

	<-reading
	reply := store.Add("resposta durante a leitura", message.SenderAI, nil, telefone)
	favorite, ok := store.ToggleFavorite(first)
	require.True(t, ok)
	require.True(t, favorite)
	close(release)
	require.NoError(t, <-done)
	repo.setBeforeList(nil)

	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, first, msgs[0].ID)
	assert.True(t, msgs[0].IsFavorite)
	assert.Equal(t, reply, msgs[1].ID)
	assert.Empty(t, effects.removed)

	store.Flush()
	_, persisted := repo.get(reply)
	assert.True(t, persisted)

	// a leitura seguinte já traz a resposta do banco, sem duplicar
	require.NoError(t, store.LoadHistory(context.Background(), telefone))
	assert.Equal(t, []string{"user:Olá", "ai:resposta durante a leitura"}, contents(store.Messages()))
	assert.True(t, store.Messages()[0].IsFavorite)
}

func TestStoreSetLoadingEmitsOnChange(t *testing.T) {
	store, effects := newTestStore(t, newMemoryRepository())

	store.SetLoading(true)
	store.SetLoading(true)
	store.SetLoading(false)

	assert.Equal(t, []bool{true, false}, effects.loading)
	assert.False(t, store.IsLoading())
}

func TestStoreNotificationsAreBounded(t *testing.T) {
	store, _ := newTestStore(t, newMemoryRepository())

	for i := 0; i < maxNotifications+5; i++ {
		store.Notify(LevelInfo, "aviso", "")
	}
	assert.Len(t, store.Notifications(), maxNotifications)
}
