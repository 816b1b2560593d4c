package subscriptions

import (
	"net/http"
	"os"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
)

// stripePriceEnv maps each plan to the environment variable holding its
// Stripe price id.
var stripePriceEnv = map[models.SubscriptionPlan]string{
	models.PlanBasic:     "STRIPE_PRICE_BASIC",
	models.PlanPremium:   "STRIPE_PRICE_PREMIUM",
	models.PlanElite:     "STRIPE_PRICE_ELITE",
	models.PlanUnlimited: "STRIPE_PRICE_UNLIMITED",
}

// @Summary Create a Stripe Checkout session for a messaging plan
// @Description Start a Stripe payment for the given plan tier. Returns the Stripe session id and URL for the frontend.
// @Tags subscriptions
// @Produce json
// @Param plan path string true "Plan tier (BASIC, PREMIUM, ELITE, UNLIMITED)"
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId, url"
// @Failure 400 {object} map[string]string "error: Unknown plan"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Stripe error or server error"
// @Router /subscriptions/checkout/{plan} [post]
func CreateCheckoutSession(c *gin.Context) {
	plan := models.SubscriptionPlan(c.Param("plan"))

	priceEnv, known := stripePriceEnv[plan]
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}
	priceID := os.Getenv(priceEnv)
	if priceID == "" {
		utils.LogError(nil, "Stripe price id not configured for plan "+string(plan))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Plan not available"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	if user.StripeCustomerId != "" {
		// make sure the customer still exists on Stripe, recreate otherwise
		if _, err := customer.Get(user.StripeCustomerId, nil); err != nil {
			user.StripeCustomerId = ""
		}
	}
	if user.StripeCustomerId == "" {
		custParams := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
		}
		cust, err := customer.New(custParams)
		if err != nil {
			utils.LogErrorWithUser(user.ID, err, "Error creating Stripe customer in CreateCheckoutSession")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating Stripe customer"})
			return
		}
		db.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("stripe_customer_id", cust.ID)
		user.StripeCustomerId = cust.ID
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(user.StripeCustomerId),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL")),
		CancelURL:         stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
		ClientReferenceID: stripe.String(string(plan)),
	}

	s, err := session.New(params)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error creating Stripe session in CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Stripe checkout session created")
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}
