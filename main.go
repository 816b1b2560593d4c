package main

import (
	"log"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	_ "github.com/rparit-stacks/pixel-pandit-esco-sub001/docs"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/routes"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
)

// @title Marketplace Messaging API
// @version 1.0
// @description REST API for the client/provider marketplace: profiles, chat threads, messages, subscriptions
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	if err := utils.InitCloudinary(); err != nil {
		log.Printf("Warning: Cloudinary initialization failed: %v", err)
		log.Println("Media upload will not work correctly.")
	}

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Error starting server:", err)
	}
}
