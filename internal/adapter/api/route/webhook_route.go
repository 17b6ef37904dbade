package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/controller"
)

// RegisterWebhookRoutes registra o webhook de entrada. O agente não usa o
// token do painel, por isso estas rotas ficam fora da autenticação.
func RegisterWebhookRoutes(r *gin.RouterGroup, webhookController *controller.WebhookController) {
	webhook := r.Group("/webhook")
	{
		webhook.POST("/inbound", webhookController.Inbound)
		webhook.GET("/inbound", webhookController.Poll)
	}
}
