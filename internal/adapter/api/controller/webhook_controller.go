package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/crm-atendimento/internal/chat"
	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// WebhookController recebe as mensagens enviadas pelo agente
type WebhookController struct {
	manager         *chat.Manager
	inbox           *chat.Inbox
	receiverEnabled bool
	logger          logger.Logger
}

// NewWebhookController cria uma nova instância de WebhookController.
// Com o receptor ligado, as mensagens vão para a fila consultada por ele;
// caso contrário são entregues direto à conversa.
func NewWebhookController(manager *chat.Manager, inbox *chat.Inbox, receiverEnabled bool, logger logger.Logger) *WebhookController {
	return &WebhookController{
		manager:         manager,
		inbox:           inbox,
		receiverEnabled: receiverEnabled,
		logger:          logger,
	}
}

// Inbound recebe uma mensagem do agente
// @Summary Webhook de entrada
// @Description Recebe {message, sender?, timestamp?, telefone}
// @Tags webhook
// @Accept json
// @Produce json
// @Param payload body dto.InboundMessageRequest true "Mensagem do agente"
// @Success 201 {object} dto.InboundAcceptedResponse
// @Success 202 {object} dto.InboundAcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /webhook/inbound [post]
func (c *WebhookController) Inbound(ctx *gin.Context) {
	var req dto.InboundMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}
	msg := req.ToInboundMessage()

	if c.receiverEnabled {
		if err := c.inbox.Push(msg); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "telefone não informado", ""))
			return
		}
		ctx.JSON(http.StatusAccepted, dto.InboundAcceptedResponse{Queued: true})
		return
	}

	id, err := c.manager.Deliver(msg, "push")
	if errors.Is(err, message.ErrEmptyConversationKey) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "telefone não informado", ""))
		return
	}
	if err != nil {
		c.logger.Error("erro ao entregar mensagem recebida", "telefone", msg.Telefone, "error", err)
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "erro ao entregar mensagem", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.InboundAcceptedResponse{ID: id})
}

// Poll entrega ao receptor a mensagem mais antiga da fila
// @Summary Consultar fila de entrada
// @Tags webhook
// @Produce json
// @Param telefone query string false "Telefone da conversa"
// @Success 200 {object} dto.InboundMessageRequest
// @Success 204
// @Router /webhook/inbound [get]
func (c *WebhookController) Poll(ctx *gin.Context) {
	msg, ok := c.inbox.Pop(ctx.Query("telefone"))
	if !ok {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, dto.InboundMessageRequest{
		Message:   msg.Message,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Telefone:  msg.Telefone,
	})
}
