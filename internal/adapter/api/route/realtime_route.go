package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/controller"
)

// RegisterRealtimeRoutes registra o websocket de eventos
func RegisterRealtimeRoutes(r *gin.RouterGroup, realtimeController *controller.RealtimeController, authMiddleware gin.HandlerFunc) {
	r.GET("/ws", authMiddleware, realtimeController.Connect)
}
