package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/users"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine) {
	usersGroup := r.Group("/users")
	usersGroup.Use(middleware.JWTAuth())
	{
		usersGroup.GET("/me", users.GetMe)
		usersGroup.DELETE("/me", users.DeleteMe)
	}

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AdminAuth())
	{
		adminGroup.GET("/users", users.GetAllUsers)
		adminGroup.PATCH("/users/:id/status", users.UpdateUserStatus)
	}
}
