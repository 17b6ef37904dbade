package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hugohenrick/crm-atendimento/internal/metrics"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

const (
	heartbeatTimeout = 10 * time.Second
	pollTimeout      = 10 * time.Second
)

// MonitorConfig configura o heartbeat e o receptor por consulta
type MonitorConfig struct {
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
	PollingEnabled    bool

	// InboundURL é lido a cada consulta; vazio pula a rodada
	InboundURL func(ctx context.Context) string

	// OnMessage recebe cada mensagem obtida na consulta
	OnMessage func(InboundMessage)
}

// Monitor mantém o webhook de saída "aquecido" e, opcionalmente, consulta a
// URL de entrada. Start vale uma única vez por processo e Stop encerra os
// agendamentos.
type Monitor struct {
	client *Client
	cfg    MonitorConfig
	logger logger.Logger
	cron   *cron.Cron

	startOnce sync.Once
	stopOnce  sync.Once
	startErr  error
}

// NewMonitor cria um novo monitor do webhook
func NewMonitor(client *Client, cfg MonitorConfig, log logger.Logger) *Monitor {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 45 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}

	cl := cronLogger{log}
	return &Monitor{
		client: client,
		cfg:    cfg,
		logger: log,
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
	}
}

// Start agenda o heartbeat e a consulta. Chamadas repetidas não criam novos
// agendamentos.
func (m *Monitor) Start() error {
	m.startOnce.Do(func() {
		_, err := m.cron.AddFunc(every(m.cfg.HeartbeatInterval), func() {
			ctx, cancel := context.WithTimeout(context.Background(), heartbeatTimeout)
			defer cancel()
			_ = m.Heartbeat(ctx)
		})
		if err != nil {
			m.startErr = fmt.Errorf("erro ao agendar heartbeat: %w", err)
			return
		}

		if m.cfg.PollingEnabled {
			_, err = m.cron.AddFunc(every(m.cfg.PollInterval), func() {
				ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
				defer cancel()
				if msg, ok := m.Poll(ctx); ok && m.cfg.OnMessage != nil {
					m.cfg.OnMessage(msg)
				}
			})
			if err != nil {
				m.startErr = fmt.Errorf("erro ao agendar consulta: %w", err)
				return
			}
		}

		m.cron.Start()
		m.logger.Info("Monitor do webhook iniciado",
			"heartbeat", m.cfg.HeartbeatInterval,
			"polling", m.cfg.PollingEnabled,
			"poll_interval", m.cfg.PollInterval)
	})
	return m.startErr
}

// Stop encerra os agendamentos e espera as rodadas em execução
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		<-m.cron.Stop().Done()
		m.logger.Info("Monitor do webhook encerrado")
	})
}

// Heartbeat envia um HEAD ao webhook de saída. Falhas só vão para o log.
func (m *Monitor) Heartbeat(ctx context.Context) error {
	if err := m.client.Heartbeat(ctx); err != nil {
		metrics.HeartbeatFailures.Inc()
		m.logger.Warn("Heartbeat do webhook falhou", "url", m.client.URL(), "error", err)
		return err
	}
	return nil
}

// Poll faz uma rodada de consulta à URL de entrada. Erros são silenciados.
func (m *Monitor) Poll(ctx context.Context) (InboundMessage, bool) {
	if m.cfg.InboundURL == nil {
		return InboundMessage{}, false
	}
	url := m.cfg.InboundURL(ctx)
	if url == "" {
		return InboundMessage{}, false
	}

	msg, ok, err := m.client.Poll(ctx, url)
	if err != nil {
		m.logger.Debug("Consulta ao webhook de entrada falhou", "url", url, "error", err)
		return InboundMessage{}, false
	}
	return msg, ok
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// cronLogger adapta logger.Logger à interface de log do cron
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
