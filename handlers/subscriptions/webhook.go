package subscriptions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

// planCredits is the number of chat credits provisioned per billing period.
var planCredits = map[models.SubscriptionPlan]int{
	models.PlanBasic:   10,
	models.PlanPremium: 50,
	models.PlanElite:   200,
}

const billingPeriod = 30 * 24 * time.Hour

// StripeWebhookHandler provisions and renews subscriptions from Stripe
// events. This is the external billing collaborator: the gate itself never
// tops credits up.
func StripeWebhookHandler(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read request body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		handleCheckoutSessionCompleted(c, event)
	case "customer.subscription.deleted":
		handleSubscriptionDeleted(c, event)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

func handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing CheckoutSession"})
		return
	}

	if sess.Customer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer missing from session"})
		return
	}

	plan := models.SubscriptionPlan(sess.ClientReferenceID)
	if _, known := stripePriceEnv[plan]; !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan in ClientReferenceID"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "stripe_customer_id = ?", sess.Customer.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user for this Stripe customer"})
		return
	}

	stripeSubID := ""
	if sess.Subscription != nil {
		stripeSubID = sess.Subscription.ID
	}

	if err := provisionSubscription(user.ID, plan, stripeSubID); err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error provisioning subscription from webhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error provisioning subscription"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Subscription provisioned for plan "+string(plan))
	c.JSON(http.StatusOK, gin.H{"message": "Subscription provisioned"})
}

func handleSubscriptionDeleted(c *gin.Context, event stripe.Event) {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Subscription"})
		return
	}

	result := db.DB.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSub.ID).
		Update("status", models.SubscriptionExpired)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error expiring subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription expired"})
}

// provisionSubscription creates or refreshes the single subscription row
// for the user: plan, credit balance, unlimited flag and a fresh expiry.
func provisionSubscription(userID string, plan models.SubscriptionPlan, stripeSubID string) error {
	isUnlimited := plan == models.PlanUnlimited
	credits := planCredits[plan]

	var sub models.Subscription
	err := db.DB.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		sub = models.Subscription{
			UserID:               userID,
			Plan:                 plan,
			ChatBalance:          credits,
			IsUnlimited:          isUnlimited,
			Status:               models.SubscriptionActive,
			ExpiresAt:            time.Now().Add(billingPeriod),
			StripeSubscriptionId: stripeSubID,
		}
		return db.DB.Create(&sub).Error
	}

	return db.DB.Model(&sub).Updates(map[string]interface{}{
		"plan":                   plan,
		"chat_balance":           credits,
		"is_unlimited":           isUnlimited,
		"status":                 models.SubscriptionActive,
		"expires_at":             time.Now().Add(billingPeriod),
		"stripe_subscription_id": stripeSubID,
	}).Error
}
