package identity

import (
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser loads the acting principal set by the auth middleware and
// writes the error response itself when the principal is missing, unknown
// or suspended.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}

	if user.Status == models.UserSuspended {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
		return nil, false
	}

	return &user, true
}
