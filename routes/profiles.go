package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/profiles"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func ProfilesRoutes(r *gin.Engine) {
	r.GET("/profiles", profiles.ListProfiles)
	r.GET("/profiles/:id", profiles.GetProfile)

	profilesGroup := r.Group("/profiles")
	profilesGroup.Use(middleware.JWTAuth())
	{
		profilesGroup.PATCH("/me", profiles.UpdateMyProfile)
		profilesGroup.PATCH("/me/availability", profiles.UpdateAvailability)
	}
}
