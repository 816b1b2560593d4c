package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/messages"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func MessagesRoutes(r *gin.Engine) {
	messagesGroup := r.Group("/messages")
	messagesGroup.Use(middleware.JWTAuth())
	{
		messagesGroup.PATCH("/:id/status", messages.UpdateMessageStatus)
	}
}
