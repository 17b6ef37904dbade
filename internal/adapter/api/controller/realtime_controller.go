package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/realtime"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// RealtimeController conecta os painéis ao canal de eventos
type RealtimeController struct {
	hub    *realtime.Hub
	logger logger.Logger
}

// NewRealtimeController cria uma nova instância de RealtimeController
func NewRealtimeController(hub *realtime.Hub, logger logger.Logger) *RealtimeController {
	return &RealtimeController{
		hub:    hub,
		logger: logger,
	}
}

// Connect abre o websocket de eventos
// @Summary Eventos em tempo real
// @Description Websocket com os eventos da conversa informada; sem telefone recebe todas
// @Tags realtime
// @Param telefone query string false "Telefone da conversa"
// @Param access_token query string false "Token JWT"
// @Success 101
// @Router /ws [get]
func (c *RealtimeController) Connect(ctx *gin.Context) {
	// Upgrade já responde ao cliente em caso de erro
	if err := c.hub.ServeWS(ctx.Writer, ctx.Request, ctx.Query("telefone")); err != nil {
		c.logger.Debug("websocket recusado", "error", err)
	}
}
