package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/favorites"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func FavoritesRoutes(r *gin.Engine) {
	favoritesGroup := r.Group("/favorites")
	favoritesGroup.Use(middleware.JWTAuth())
	{
		favoritesGroup.GET("", favorites.ListFavorites)
		favoritesGroup.POST("", favorites.CreateFavorite)
		favoritesGroup.DELETE("/:profileId", favorites.DeleteFavorite)
	}
}
