package dto

import "github.com/hugohenrick/crm-atendimento/pkg/webhook"

// InboundMessageRequest é a carga enviada pelo agente ao webhook de entrada
type InboundMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Telefone  string `json:"telefone" binding:"required"`
}

// InboundAcceptedResponse informa o destino da mensagem recebida
type InboundAcceptedResponse struct {
	ID     string `json:"id,omitempty"`
	Queued bool   `json:"queued"`
}

// InboundURLRequest altera a URL consultada pelo receptor
type InboundURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// InboundURLResponse devolve a URL de entrada em uso
type InboundURLResponse struct {
	URL        string `json:"url"`
	DefaultURL string `json:"defaultUrl"`
}

// ToInboundMessage converte a requisição para a mensagem do webhook
func (r InboundMessageRequest) ToInboundMessage() webhook.InboundMessage {
	return webhook.InboundMessage{
		Message:   r.Message,
		Sender:    r.Sender,
		Timestamp: r.Timestamp,
		Telefone:  r.Telefone,
	}
}
