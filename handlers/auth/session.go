package auth

import (
	"errors"
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
)

// SessionExchange model for trading an external session token for an API JWT
type SessionExchange struct {
	Token string      `json:"token" binding:"required"`
	Role  models.Role `json:"role"`
}

// @Summary Exchange an external session for an API token
// @Description Accept a token minted by the session provider, resolve (or lazily provision) the matching domain user and return an API JWT. Passing role PROVIDER also provisions a default profile.
// @Tags auth
// @Accept json
// @Produce json
// @Param session body SessionExchange true "External session token"
// @Success 200 {object} map[string]interface{} "token: JWT, user: resolved user"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Invalid session"
// @Failure 403 {object} map[string]string "error: Not a provider"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /auth/session [post]
func ExchangeSession(c *gin.Context) {
	var input SessionExchange
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	claims, err := utils.DecodeSessionToken(input.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
		return
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	session := identity.Session{Subject: subject, Email: email, Name: name}

	var user *models.User
	if input.Role == models.ProviderRole {
		user, _, err = identity.ResolveProviderWithProfile(session)
	} else {
		user, err = identity.ResolveOrCreate(session, models.ClientRole)
	}
	if err != nil {
		if errors.Is(err, identity.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			return
		}
		if errors.Is(err, identity.ErrNotProvider) {
			c.JSON(http.StatusForbidden, gin.H{"error": "User is not a provider"})
			return
		}
		utils.LogError(err, "Error resolving session in ExchangeSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving session"})
		return
	}

	if user.Status == models.UserSuspended {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
		return
	}

	token, err := utils.GenerateJWT(*user, 72)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error generating token"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "External session exchanged")
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
