package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hugohenrick/crm-atendimento/internal/chat"
	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/internal/metrics"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// Tipos de evento enviados ao painel
const (
	EventMessageAdded    = "message.added"
	EventMessageRemoved  = "message.removed"
	EventMessageFavorite = "message.favorite"
	EventScroll          = "chat.scroll"
	EventLoading         = "chat.loading"
	EventNotification    = "notification"
	EventClipboard       = "clipboard"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var ErrHubClosed = errors.New("canal de tempo real encerrado")

// Event é a mensagem enviada pelo websocket
type Event struct {
	Type      string      `json:"type"`
	Telefone  string      `json:"telefone"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type client struct {
	telefone string
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub distribui os eventos das conversas aos painéis conectados.
// Cada conexão só recebe os eventos do telefone que assinou; telefone
// vazio recebe todos. Conexões lentas são descartadas.
type Hub struct {
	logger   logger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub cria um novo Hub. checkOrigin nil aceita qualquer origem.
func NewHub(logger logger.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeWS atualiza a conexão para websocket e bloqueia até ela fechar
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, telefone string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{telefone: telefone, conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.Close()
		return ErrHubClosed
	}

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// Publish envia o evento aos painéis interessados
func (h *Hub) Publish(e Event) {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("Erro ao serializar evento", "type", e.Type, "error", err)
		return
	}

	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		if c.telefone != "" && c.telefone != e.Telefone {
			continue
		}
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Painel lento desconectado", "telefone", c.telefone)
		h.unregister(c)
	}
}

// ClientCount retorna o número de conexões ativas
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close desconecta todos os painéis
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) MessageAdded(telefone string, m message.Message) {
	h.Publish(Event{Type: EventMessageAdded, Telefone: telefone, Data: m})
}

func (h *Hub) MessageRemoved(telefone, id string) {
	h.Publish(Event{Type: EventMessageRemoved, Telefone: telefone, Data: map[string]string{"id": id}})
}

func (h *Hub) FavoriteChanged(telefone, id string, isFavorite bool) {
	h.Publish(Event{Type: EventMessageFavorite, Telefone: telefone, Data: map[string]interface{}{"id": id, "isFavorite": isFavorite}})
}

func (h *Hub) ScrollToBottom(telefone string) {
	h.Publish(Event{Type: EventScroll, Telefone: telefone})
}

func (h *Hub) LoadingChanged(telefone string, loading bool) {
	h.Publish(Event{Type: EventLoading, Telefone: telefone, Data: map[string]bool{"isLoading": loading}})
}

func (h *Hub) Notify(telefone string, n chat.Notification) {
	h.Publish(Event{Type: EventNotification, Telefone: telefone, Data: n})
}

// Write entrega o texto copiado ao painel, que grava na área de transferência
func (h *Hub) Write(_ context.Context, telefone, text string) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrHubClosed
	}

	h.Publish(Event{Type: EventClipboard, Telefone: telefone, Data: map[string]string{"text": text}})
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.RealtimeClients.Inc()
	h.logger.Debug("Painel conectado", "telefone", c.telefone)
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		metrics.RealtimeClients.Dec()
		c.close()
		h.logger.Debug("Painel desconectado", "telefone", c.telefone)
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// o painel não envia comandos; a leitura só detecta o fechamento
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
