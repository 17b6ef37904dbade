package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/controller"
)

// RegisterChatRoutes registra as rotas das conversas
func RegisterChatRoutes(r *gin.RouterGroup, chatController *controller.ChatController, authMiddleware gin.HandlerFunc) {
	conversations := r.Group("/conversations/:telefone")
	conversations.Use(authMiddleware)
	{
		conversations.GET("/state", chatController.State)
		conversations.GET("/messages", chatController.History)
		conversations.POST("/messages", chatController.Send)
		conversations.PATCH("/messages/:id/favorite", chatController.ToggleFavorite)
		conversations.DELETE("/messages/:id", chatController.Delete)
		conversations.POST("/messages/:id/copy", chatController.Copy)
		conversations.DELETE("/history", chatController.ClearHistory)

		conversations.POST("/files", chatController.StageFiles)
		conversations.DELETE("/files", chatController.ClearFiles)
		conversations.DELETE("/files/:fileId", chatController.RemoveFile)
	}
}
