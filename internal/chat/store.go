package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// maxNotifications limita os avisos guardados por conversa
const maxNotifications = 20

var (
	ErrDeleteFailed = errors.New("não foi possível excluir a mensagem")
	ErrCopyFailed   = errors.New("não foi possível copiar a mensagem")
)

// Store é a lista ordenada de mensagens da conversa ativa.
//
// Inclusões e favoritos são otimistas: aparecem na hora e são gravadas em
// segundo plano, sem desfazer em caso de falha. A exclusão é a exceção:
// só sai da lista depois que o banco confirma.
type Store struct {
	key         string
	persistence *Persistence
	effects     Effects
	clipboard   Clipboard
	logger      logger.Logger

	mu            sync.RWMutex
	messages      []message.Message
	loading       bool
	notifications []Notification

	writes writeQueue

	// Mensagens incluídas e favoritos alterados durante a leitura do histórico
	captured          map[string]struct{}
	capturedFavorites map[string]bool
}

// NewStore cria o estado de chat da conversa informada
func NewStore(conversationKey string, persistence *Persistence, effects Effects, clipboard Clipboard, logger logger.Logger) *Store {
	if effects == nil {
		effects = NopEffects{}
	}
	return &Store{
		key:         conversationKey,
		persistence: persistence,
		effects:     effects,
		clipboard:   clipboard,
		logger:      logger,
		messages:    make([]message.Message, 0),
	}
}

// Add inclui uma mensagem no fim da lista e devolve seu ID. Com chave de
// conversa, a mensagem também é gravada no banco sem bloquear o chamador.
func (s *Store) Add(content string, sender message.Sender, files []message.File, conversationKey string) string {
	return s.AddAt(content, sender, files, time.Time{}, conversationKey)
}

// AddAt é como Add, mas usa o horário informado; horário zero usa o atual
func (s *Store) AddAt(content string, sender message.Sender, files []message.File, at time.Time, conversationKey string) string {
	m := message.NewMessage(content, sender, files)
	m.ConversationKey = conversationKey
	if !at.IsZero() {
		m.Timestamp = at
	}

	s.mu.Lock()
	s.messages = append(s.messages, *m)
	if s.captured != nil {
		s.captured[m.ID] = struct{}{}
	}
	s.mu.Unlock()

	s.effects.MessageAdded(s.key, *m)
	s.effects.ScrollToBottom(s.key)

	if conversationKey != "" && s.persistence != nil {
		s.writes.Go(func() {
			if !s.persistence.Insert(context.Background(), m, conversationKey) {
				s.Notify(LevelError, "Erro ao salvar mensagem", "A mensagem continua visível, mas não foi gravada no histórico.")
			}
		})
	}

	return m.ID
}

// ToggleFavorite inverte o favorito na hora e grava em segundo plano.
// Retorna o novo valor e false quando a mensagem não existe.
func (s *Store) ToggleFavorite(id string) (bool, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, false
	}
	s.messages[idx].IsFavorite = !s.messages[idx].IsFavorite
	favorite := s.messages[idx].IsFavorite
	if s.capturedFavorites != nil {
		s.capturedFavorites[id] = favorite
	}
	s.mu.Unlock()

	s.effects.FavoriteChanged(s.key, id, favorite)

	if s.persistence != nil {
		s.writes.Go(func() {
			if !s.persistence.UpdateFavorite(context.Background(), id, favorite) {
				s.Notify(LevelError, "Erro ao atualizar favorito", "")
			}
		})
	}

	return favorite, true
}

// Delete exclui a mensagem do banco e, só se der certo, da lista
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		s.Notify(LevelError, "Erro ao excluir mensagem", "Mensagem não encontrada.")
		return message.ErrMessageNotFound
	}

	var deleted bool
	err := s.writes.Do(ctx, func() {
		deleted = s.persistence == nil || s.persistence.Delete(context.Background(), id)
		if deleted {
			s.remove(id)
		}
	})
	if err != nil {
		return err
	}

	if !deleted {
		s.Notify(LevelError, "Erro ao excluir mensagem", "A mensagem não foi removida.")
		return ErrDeleteFailed
	}

	s.Notify(LevelSuccess, "Mensagem excluída", "")
	return nil
}

// CopyToClipboard copia o conteúdo da mensagem; não altera o estado
func (s *Store) CopyToClipboard(ctx context.Context, id string) error {
	m, ok := s.Get(id)
	if !ok {
		s.Notify(LevelError, "Erro ao copiar mensagem", "Mensagem não encontrada.")
		return message.ErrMessageNotFound
	}

	if s.clipboard == nil {
		s.Notify(LevelError, "Erro ao copiar mensagem", "Área de transferência indisponível.")
		return ErrCopyFailed
	}

	if err := s.clipboard.Write(ctx, s.key, m.Content); err != nil {
		s.logger.Warn("Falha ao copiar mensagem", "message_id", id, "error", err)
		s.Notify(LevelError, "Erro ao copiar mensagem", err.Error())
		return ErrCopyFailed
	}

	s.Notify(LevelSuccess, "Mensagem copiada", "")
	return nil
}

// LoadHistory substitui a lista pelo histórico gravado da conversa.
// Gravações pendentes terminam antes da leitura. Mensagens incluídas e
// favoritos alterados durante a leitura são mantidos. Se o banco falhar,
// a lista atual fica como está.
func (s *Store) LoadHistory(ctx context.Context, conversationKey string) error {
	return s.writes.Do(ctx, func() {
		s.mu.Lock()
		s.captured = make(map[string]struct{})
		s.capturedFavorites = make(map[string]bool)
		s.mu.Unlock()

		history, ok := []message.Message{}, true
		if s.persistence != nil {
			history, ok = s.persistence.LoadHistory(ctx, conversationKey)
		}

		s.mu.Lock()
		if ok {
			s.messages = s.withCaptured(history)
		}
		s.captured, s.capturedFavorites = nil, nil
		s.mu.Unlock()

		if !ok {
			if ctx.Err() == nil {
				s.Notify(LevelError, "Erro ao carregar histórico", "As mensagens exibidas foram mantidas.")
			}
			return
		}
		s.effects.ScrollToBottom(s.key)
	})
}

// Messages devolve uma cópia da lista atual
func (s *Store) Messages() []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]message.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Get busca uma mensagem pelo ID
func (s *Store) Get(id string) (message.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.messages[idx], true
	}
	return message.Message{}, false
}

// Len retorna a quantidade de mensagens na lista
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// IsLoading indica se há um envio em andamento
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetLoading altera o indicador de envio em andamento
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	changed := s.loading != loading
	s.loading = loading
	s.mu.Unlock()

	if changed {
		s.effects.LoadingChanged(s.key, loading)
	}
}

// Notify registra um aviso transitório e o repassa ao painel
func (s *Store) Notify(level NotificationLevel, title, description string) {
	n := Notification{
		Level:       level,
		Title:       title,
		Description: description,
		Timestamp:   time.Now(),
	}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}
	s.mu.Unlock()

	s.effects.Notify(s.key, n)
}

// Notifications devolve os avisos mais recentes
func (s *Store) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Flush espera as gravações pendentes
func (s *Store) Flush() {
	s.writes.Wait()
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx >= 0 {
		s.messages = append(s.messages[:idx], s.messages[idx+1:]...)
	}
	s.mu.Unlock()

	if idx >= 0 {
		s.effects.MessageRemoved(s.key, id)
	}
}

// withCaptured aplica ao histórico o que mudou durante a leitura.
// Deve ser chamado com o lock adquirido.
func (s *Store) withCaptured(history []message.Message) []message.Message {
	known := make(map[string]struct{}, len(history))
	for i := range history {
		known[history[i].ID] = struct{}{}
		if favorite, ok := s.capturedFavorites[history[i].ID]; ok {
			history[i].IsFavorite = favorite
		}
	}

	for _, m := range s.messages {
		if _, ok := s.captured[m.ID]; !ok {
			continue
		}
		if _, ok := known[m.ID]; ok {
			continue
		}
		history = append(history, m)
	}
	return history
}

// indexOf deve ser chamado com o lock adquirido
func (s *Store) indexOf(id string) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}
