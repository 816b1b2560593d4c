package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/auth"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/auth/session", auth.ExchangeSession)
}
