package chat

import (
	"strings"
	"sync"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/webhook"
)

// DefaultInboxSize limita as mensagens aguardando consulta
const DefaultInboxSize = 500

// Inbox guarda as mensagens empurradas pelo agente até o receptor
// consultá-las. Ao passar do limite, a mais antiga é descartada.
type Inbox struct {
	mu    sync.Mutex
	queue []webhook.InboundMessage
	max   int
}

// NewInbox cria uma nova fila de entrada
func NewInbox(max int) *Inbox {
	if max <= 0 {
		max = DefaultInboxSize
	}
	return &Inbox{max: max}
}

// Push enfileira a mensagem; telefone é obrigatório
func (i *Inbox) Push(msg webhook.InboundMessage) error {
	if strings.TrimSpace(msg.Telefone) == "" {
		return message.ErrEmptyConversationKey
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.queue = append(i.queue, msg)
	if len(i.queue) > i.max {
		i.queue = i.queue[len(i.queue)-i.max:]
	}
	return nil
}

// Pop retira a mensagem mais antiga da conversa; chave vazia retira a
// mais antiga de qualquer conversa
func (i *Inbox) Pop(conversationKey string) (webhook.InboundMessage, bool) {
	key := strings.TrimSpace(conversationKey)

	i.mu.Lock()
	defer i.mu.Unlock()

	for idx, msg := range i.queue {
		if key == "" || msg.Telefone == key {
			i.queue = append(i.queue[:idx], i.queue[idx+1:]...)
			return msg, true
		}
	}
	return webhook.InboundMessage{}, false
}

// Len retorna o total de mensagens na fila
func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.queue)
}
