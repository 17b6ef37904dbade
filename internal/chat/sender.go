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

var (
	ErrSuperseded   = errors.New("envio substituído por um mais recente")
	ErrSendTimeout  = errors.New("tempo limite do webhook excedido")
	ErrSenderClosed = errors.New("conversa encerrada")
)

// FallbackReply é a resposta exibida quando o webhook não responde
const FallbackReply = "Desculpe, não consegui processar sua mensagem agora. Tente novamente em instantes."

// DefaultSendTimeout é o tempo máximo de espera pela resposta do agente
const DefaultSendTimeout = 30 * time.Second

// SenderConfig configura o envio de uma conversa
type SenderConfig struct {
	Client  *webhook.Client
	Timeout time.Duration
}

// Sender envia as mensagens do operador ao webhook do agente.
// Só uma requisição fica em andamento por conversa: um novo envio cancela
// o anterior, que termina sem mensagem de erro.
type Sender struct {
	store   *Store
	staging *Staging
	client  *webhook.Client
	timeout time.Duration
	logger  logger.Logger

	mu         sync.Mutex
	cancel     context.CancelCauseFunc
	generation uint64
	closed     bool

	inflight sync.WaitGroup
}

// NewSender cria um novo Sender
func NewSender(store *Store, staging *Staging, cfg SenderConfig, logger logger.Logger) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSendTimeout
	}
	return &Sender{
		store:   store,
		staging: staging,
		client:  cfg.Client,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Send inclui a mensagem do operador na conversa e dispara o envio em
// segundo plano. Retorna o ID da mensagem incluída, ou "" quando não há
// texto nem arquivos.
func (s *Sender) Send(content, conversationKey string) string {
	files := s.staging.Take()
	if strings.TrimSpace(content) == "" && len(files) == 0 {
		return ""
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	s.generation++
	generation := s.generation
	s.cancel = cancel
	s.inflight.Add(1)
	s.mu.Unlock()

	id := s.store.Add(content, message.SenderUser, files, conversationKey)
	s.store.SetLoading(true)

	out := webhook.Outbound{
		Telefone: conversationKey,
		Mensagem: content,
		Files:    make([]webhook.Attachment, 0, len(files)),
	}
	for _, f := range files {
		out.Files = append(out.Files, webhook.Attachment{Name: f.Name, Type: f.Type, Data: f.Data})
	}

	go s.deliver(ctx, cancel, generation, out)
	return id
}

// Wait bloqueia até todos os envios em andamento terminarem
func (s *Sender) Wait() {
	s.inflight.Wait()
}

// Close cancela o envio em andamento e recusa novos envios
func (s *Sender) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel(ErrSenderClosed)
	}
	s.mu.Unlock()

	s.inflight.Wait()
}

func (s *Sender) deliver(ctx context.Context, cancel context.CancelCauseFunc, generation uint64, out webhook.Outbound) {
	defer s.inflight.Done()
	defer cancel(nil)
	defer s.finish(generation)

	ctx, stop := context.WithTimeoutCause(ctx, s.timeout, ErrSendTimeout)
	defer stop()

	start := time.Now()
	reply, err := s.client.Send(ctx, out)
	metrics.WebhookLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		cause := context.Cause(ctx)
		if errors.Is(cause, ErrSuperseded) || errors.Is(cause, ErrSenderClosed) {
			metrics.MessagesSent.WithLabelValues("superseded").Inc()
			s.logger.Debug("Envio cancelado", "telefone", out.Telefone, "cause", cause)
			return
		}

		description := "Não foi possível falar com o agente."
		var statusErr *webhook.StatusError
		switch {
		case errors.Is(cause, ErrSendTimeout):
			metrics.MessagesSent.WithLabelValues("timeout").Inc()
			description = "O agente demorou demais para responder."
		case errors.As(err, &statusErr):
			metrics.MessagesSent.WithLabelValues("http_error").Inc()
		default:
			metrics.MessagesSent.WithLabelValues("network_error").Inc()
		}

		s.logger.Error("Erro ao enviar mensagem ao webhook",
			"telefone", out.Telefone,
			"url", s.client.URL(),
			"error", err)
		s.store.Add(FallbackReply, message.SenderAI, nil, out.Telefone)
		s.store.Notify(LevelError, "Erro ao enviar mensagem", description)
		return
	}

	metrics.MessagesSent.WithLabelValues("ok").Inc()
	if reply != "" {
		s.store.Add(reply, message.SenderAI, nil, out.Telefone)
	}
}

// finish encerra o indicador de envio; só o envio mais recente o desliga
func (s *Sender) finish(generation uint64) {
	s.mu.Lock()
	latest := generation == s.generation
	if latest {
		s.cancel = nil
	}
	s.mu.Unlock()

	if latest {
		s.store.SetLoading(false)
	}
}
