package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/media"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func MediaRoutes(r *gin.Engine) {
	mediaGroup := r.Group("/media")
	mediaGroup.Use(middleware.JWTAuth())
	{
		mediaGroup.POST("", media.UploadMedia)
	}
}
