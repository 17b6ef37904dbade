package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atendimento_http_requests_total",
			Help: "Total de requisições HTTP",
		},
		[]string{"method", "path", "status"},
	)

	// Envio ao webhook
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atendimento_messages_sent_total",
			Help: "Envios ao webhook por resultado",
		},
		[]string{"outcome"}, // "ok", "http_error", "network_error", "timeout", "superseded"
	)

	WebhookLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atendimento_webhook_latency_seconds",
			Help:    "Latência das chamadas ao webhook de saída",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// Persistência
	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atendimento_persistence_failures_total",
			Help: "Falhas de persistência por operação",
		},
		[]string{"operation"},
	)

	// Monitor do webhook
	HeartbeatFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atendimento_heartbeat_failures_total",
			Help: "Falhas do heartbeat do webhook de saída",
		},
	)

	InboundDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atendimento_inbound_delivered_total",
			Help: "Mensagens recebidas entregues às conversas",
		},
		[]string{"source"}, // "push" ou "poll"
	)

	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atendimento_realtime_clients",
			Help: "Conexões websocket ativas",
		},
	)
)
