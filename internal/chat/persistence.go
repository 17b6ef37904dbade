package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/internal/metrics"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// Persistence grava o histórico no banco em regime de melhor esforço.
// Nenhuma operação propaga erro: falhas são registradas em log e
// reportadas como false para que o chamador avise o operador.
type Persistence struct {
	repo    message.Repository
	logger  logger.Logger
	timeout time.Duration
}

// NewPersistence cria uma nova instância de Persistence
func NewPersistence(repo message.Repository, logger logger.Logger, timeout time.Duration) *Persistence {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Persistence{
		repo:    repo,
		logger:  logger,
		timeout: timeout,
	}
}

// Insert salva a mensagem; anexos são gravados apenas como metadados
func (p *Persistence) Insert(ctx context.Context, m *message.Message, conversationKey string) bool {
	if strings.TrimSpace(conversationKey) == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.repo.Insert(ctx, m, conversationKey); err != nil {
		p.fail("insert", "Erro ao salvar mensagem", err, "message_id", m.ID, "telefone", conversationKey)
		return false
	}
	return true
}

// UpdateFavorite atualiza o marcador de favorito
func (p *Persistence) UpdateFavorite(ctx context.Context, id string, isFavorite bool) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.repo.UpdateFavorite(ctx, id, isFavorite)
	if errors.Is(err, message.ErrMessageNotFound) {
		// mensagem nunca persistida: nada a atualizar
		p.logger.Debug("Favorito de mensagem não persistida", "message_id", id)
		return true
	}
	if err != nil {
		p.fail("update_favorite", "Erro ao atualizar favorito", err, "message_id", id)
		return false
	}
	return true
}

// Delete remove a mensagem do banco. Remover uma linha inexistente é sucesso.
func (p *Persistence) Delete(ctx context.Context, id string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.repo.Delete(ctx, id)
	if errors.Is(err, message.ErrMessageNotFound) {
		p.logger.Debug("Mensagem já ausente do banco", "message_id", id)
		return true
	}
	if err != nil {
		p.fail("delete", "Erro ao deletar mensagem", err, "message_id", id)
		return false
	}
	return true
}

// LoadHistory carrega o histórico em ordem cronológica. Devolve uma lista
// vazia quando a chave está vazia, não há linhas ou o banco falha.
func (p *Persistence) LoadHistory(ctx context.Context, conversationKey string) ([]message.Message, bool) {
	if strings.TrimSpace(conversationKey) == "" {
		return []message.Message{}, true
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	history, err := p.repo.ListByConversation(ctx, conversationKey)
	if err != nil {
		p.fail("load_history", "Erro ao carregar histórico", err, "telefone", conversationKey)
		return []message.Message{}, false
	}
	if history == nil {
		history = []message.Message{}
	}
	return history, true
}

// ClearHistory apaga todo o histórico persistido da conversa
func (p *Persistence) ClearHistory(ctx context.Context, conversationKey string) (int64, bool) {
	if strings.TrimSpace(conversationKey) == "" {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	n, err := p.repo.DeleteConversation(ctx, conversationKey)
	if err != nil {
		p.fail("clear_history", "Erro ao apagar histórico", err, "telefone", conversationKey)
		return 0, false
	}
	return n, true
}

// Count conta as mensagens persistidas da conversa
func (p *Persistence) Count(ctx context.Context, conversationKey string) (int, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	n, err := p.repo.CountByConversation(ctx, conversationKey)
	if err != nil {
		p.fail("count", "Erro ao contar mensagens", err, "telefone", conversationKey)
		return 0, false
	}
	return n, true
}

func (p *Persistence) fail(operation, msg string, err error, keysAndValues ...interface{}) {
	metrics.PersistenceFailures.WithLabelValues(operation).Inc()
	p.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
