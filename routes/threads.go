package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/messages"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/threads"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func ThreadsRoutes(r *gin.Engine) {
	chatsGroup := r.Group("/chats")
	chatsGroup.Use(middleware.JWTAuth())
	{
		chatsGroup.GET("", threads.ListThreads)
		chatsGroup.POST("", threads.CreateThread)
		chatsGroup.PATCH("/:id/status", threads.UpdateThreadStatus)
		chatsGroup.DELETE("/:id", threads.DeleteThread)

		chatsGroup.GET("/:id/messages", messages.ListMessages)
		chatsGroup.POST("/:id/messages", messages.SendMessage)
	}
}
