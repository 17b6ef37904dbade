package chat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

const telefone = "5511999999999"

var errDatabase = errors.New("banco indisponível")

// memoryRepository é um message.Repository em memória com falhas configuráveis
type memoryRepository struct {
	mu   sync.Mutex
	rows map[string]message.Message

	failInsert   bool
	failFavorite bool
	failDelete   bool
	failList     bool

	// beforeList roda antes de cada leitura do histórico, fora do lock
	beforeList func()
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]message.Message)}
}

func (r *memoryRepository) Insert(_ context.Context, m *message.Message, conversationKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errDatabase
	}
	row := *m
	row.ConversationKey = conversationKey
	row.Files = nil
	row.Attachments = m.Metadata()
	r.rows[m.ID] = row
	return nil
}

func (r *memoryRepository) UpdateFavorite(_ context.Context, id string, isFavorite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFavorite {
		return errDatabase
	}
	row, ok := r.rows[id]
	if !ok {
		return message.ErrMessageNotFound
	}
	row.IsFavorite = isFavorite
	r.rows[id] = row
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return errDatabase
	}
	if _, ok := r.rows[id]; !ok {
		return message.ErrMessageNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryRepository) ListByConversation(_ context.Context, conversationKey string) ([]message.Message, error) {
	r.mu.Lock()
	hook := r.beforeList
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errDatabase
	}
	out := make([]message.Message, 0)
	for _, row := range r.rows {
		if row.ConversationKey == conversationKey {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memoryRepository) CountByConversation(ctx context.Context, conversationKey string) (int, error) {
	rows, err := r.ListByConversation(ctx, conversationKey)
	return len(rows), err
}

func (r *memoryRepository) DeleteConversation(_ context.Context, conversationKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, row := range r.rows {
		if row.ConversationKey == conversationKey {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository) setFailures(insert, favorite, del, list bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failInsert, r.failFavorite, r.failDelete, r.failList = insert, favorite, del, list
}

func (r *memoryRepository) setBeforeList(hook func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeList = hook
}

func (r *memoryRepository) get(id string) (message.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	return row, ok
}

func (r *memoryRepository) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// recordingEffects guarda os efeitos recebidos
type recordingEffects struct {
	mu      sync.Mutex
	scrolls int
	loading []bool
	added   []string
	removed []string
}

func (e *recordingEffects) MessageAdded(_ string, m message.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.added = append(e.added, m.ID)
}

func (e *recordingEffects) MessageRemoved(_ string, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removed = append(e.removed, id)
}

func (e *recordingEffects) FavoriteChanged(string, string, bool) {}

func (e *recordingEffects) ScrollToBottom(string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolls++
}

func (e *recordingEffects) LoadingChanged(_ string, loading bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = append(e.loading, loading)
}

func (e *recordingEffects) Notify(string, Notification) {}

func (e *recordingEffects) scrollCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolls
}

type memoryClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (c *memoryClipboard) Write(_ context.Context, _ string, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestStore(t *testing.T, repo message.Repository) (*Store, *recordingEffects) {
	t.Helper()
	effects := &recordingEffects{}
	log := logger.NewNop()
	store := NewStore(telefone, NewPersistence(repo, log, time.Second), effects, &memoryClipboard{}, log)
	t.Cleanup(store.Flush)
	return store, effects
}

func lastNotification(s *Store) Notification {
	n := s.Notifications()
	if len(n) == 0 {
		return Notification{}
	}
	return n[len(n)-1]
}
