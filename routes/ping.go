package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/ping"

	"github.com/gin-gonic/gin"
)

func PingRoutes(r *gin.Engine) {
	handler := ping.New()
	r.GET("/ping", handler.HandlePing)
}
