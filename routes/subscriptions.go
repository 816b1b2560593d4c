package routes

import (
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/subscriptions"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionsRoutes(r *gin.Engine) {
	subscriptionsGroup := r.Group("/subscriptions")
	subscriptionsGroup.Use(middleware.JWTAuth())
	{
		subscriptionsGroup.GET("/me", subscriptions.GetMySubscription)
		subscriptionsGroup.GET("/me/entitlement", subscriptions.GetChatEntitlement)
		subscriptionsGroup.POST("/checkout/:plan", subscriptions.CreateCheckoutSession)
	}

	// Stripe calls this, signature-verified, no JWT
	r.POST("/webhooks/stripe", subscriptions.StripeWebhookHandler)
}
