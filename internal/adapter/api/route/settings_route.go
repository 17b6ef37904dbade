package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/controller"
)

// RegisterSettingsRoutes registra as rotas de configuração
func RegisterSettingsRoutes(r *gin.RouterGroup, settingsController *controller.SettingsController, authMiddleware gin.HandlerFunc) {
	settings := r.Group("/settings")
	settings.Use(authMiddleware)
	{
		settings.GET("/inbound-url", settingsController.GetInboundURL)
		settings.PUT("/inbound-url", settingsController.SetInboundURL)
		settings.DELETE("/inbound-url", settingsController.ResetInboundURL)
	}
}
