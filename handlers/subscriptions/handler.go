package subscriptions

import (
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Get my subscription
// @Description Return the authenticated client's usable subscription, if any
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Subscription "Active subscription"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: No active subscription"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /subscriptions/me [get]
func GetMySubscription(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	sub, err := GetActiveSubscription(user.ID)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error fetching subscription in GetMySubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscription"})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary Check chat entitlement
// @Description Return whether the authenticated client may initiate a conversation
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} GateDecision "Entitlement decision"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /subscriptions/me/entitlement [get]
func GetChatEntitlement(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	decision, err := CanInitiateChat(user.ID)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error checking entitlement in GetChatEntitlement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking entitlement"})
		return
	}

	c.JSON(http.StatusOK, decision)
}
