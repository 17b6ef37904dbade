package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/internal/metrics"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
	"github.com/hugohenrick/crm-atendimento/pkg/webhook"
)

var ErrManagerClosed = errors.New("gerenciador de conversas encerrado")

// Session agrupa o estado, os arquivos em espera e o envio de uma conversa
type Session struct {
	Key     string
	Store   *Store
	Staging *Staging
	Sender  *Sender
}

// ManagerConfig configura as sessões criadas pelo Manager
type ManagerConfig struct {
	Client         *webhook.Client
	SendTimeout    time.Duration
	MaxUploadBytes int64
}

// Manager mantém uma sessão por telefone, criada no primeiro uso
type Manager struct {
	persistence *Persistence
	effects     Effects
	clipboard   Clipboard
	cfg         ManagerConfig
	logger      logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager cria um novo Manager
func NewManager(persistence *Persistence, effects Effects, clipboard Clipboard, cfg ManagerConfig, logger logger.Logger) *Manager {
	return &Manager{
		persistence: persistence,
		effects:     effects,
		clipboard:   clipboard,
		cfg:         cfg,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// Get devolve a sessão da conversa, criando-a se necessário
func (m *Manager) Get(conversationKey string) (*Session, error) {
	key := strings.TrimSpace(conversationKey)
	if key == "" {
		return nil, message.ErrEmptyConversationKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if s, ok := m.sessions[key]; ok {
		return s, nil
	}

	store := NewStore(key, m.persistence, m.effects, m.clipboard, m.logger)
	staging := NewStaging(m.cfg.MaxUploadBytes, m.logger)
	s := &Session{
		Key:     key,
		Store:   store,
		Staging: staging,
		Sender: NewSender(store, staging, SenderConfig{
			Client:  m.cfg.Client,
			Timeout: m.cfg.SendTimeout,
		}, m.logger),
	}
	m.sessions[key] = s

	m.logger.Debug("Sessão de conversa criada", "telefone", key)
	return s, nil
}

// Lookup busca uma sessão já existente
func (m *Manager) Lookup(conversationKey string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[strings.TrimSpace(conversationKey)]
	return s, ok
}

// Deliver inclui uma mensagem recebida do agente na conversa indicada
func (m *Manager) Deliver(in webhook.InboundMessage, source string) (string, error) {
	s, err := m.Get(in.Telefone)
	if err != nil {
		return "", err
	}

	sender := message.Sender(in.Sender)
	if !sender.Valid() {
		sender = message.SenderAI
	}

	at, ok := in.Time()
	if !ok && in.Timestamp != "" {
		m.logger.Debug("Horário da mensagem recebida ignorado", "telefone", s.Key, "timestamp", in.Timestamp)
	}

	id := s.Store.AddAt(in.Message, sender, nil, at, s.Key)
	metrics.InboundDelivered.WithLabelValues(source).Inc()
	m.logger.Info("Mensagem recebida entregue", "telefone", s.Key, "source", source, "message_id", id)
	return id, nil
}

// ClearHistory apaga o histórico gravado e esvazia a lista da sessão
func (m *Manager) ClearHistory(ctx context.Context, conversationKey string) (int64, error) {
	s, err := m.Get(conversationKey)
	if err != nil {
		return 0, err
	}

	s.Store.Flush()
	n, ok := m.persistence.ClearHistory(ctx, s.Key)
	if !ok {
		s.Store.Notify(LevelError, "Erro ao apagar histórico", "")
		return 0, ErrDeleteFailed
	}

	if err := s.Store.LoadHistory(ctx, s.Key); err != nil {
		return n, err
	}
	s.Store.Notify(LevelSuccess, "Histórico apagado", "")
	return n, nil
}

// Close cancela os envios em andamento e espera as gravações pendentes
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Sender.Close()
		s.Staging.Wait()
		s.Store.Flush()
	}
	m.logger.Info("Sessões de conversa encerradas", "count", len(sessions))
}
