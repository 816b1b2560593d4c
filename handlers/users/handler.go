package users

import (
	"errors"
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Get my account
// @Description Return the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "user: account"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /users/me [get]
func GetMe(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// @Summary List all users
// @Description List every account, newest first (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "users: list of accounts"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /admin/users [get]
func GetAllUsers(c *gin.Context) {
	var users []models.User

	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// @Summary Moderate an account
// @Description Set a user's lifecycle status (admin only). Suspended users can no longer authenticate.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param status body models.UserStatusUpdate true "New status"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: User status updated"
// @Failure 400 {object} map[string]string "error: Invalid status"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: User not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /admin/users/{id}/status [patch]
func UpdateUserStatus(c *gin.Context) {
	var statusUpdate models.UserStatusUpdate
	if err := c.ShouldBindJSON(&statusUpdate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	switch statusUpdate.Status {
	case models.UserActive, models.UserPending, models.UserSuspended:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be ACTIVE, PENDING or SUSPENDED"})
		return
	}

	var user models.User
	if err := db.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving user"})
		}
		return
	}

	if err := db.DB.Model(&user).Update("status", statusUpdate.Status).Error; err != nil {
		utils.LogError(err, "Error updating user status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user status"})
		return
	}

	utils.LogSuccess("User " + user.ID + " status set to " + string(statusUpdate.Status))
	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}

// @Summary Delete my account
// @Description Delete the authenticated user's account and everything it owns (profile, subscription, threads, messages).
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Account deleted"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /users/me [delete]
func DeleteMe(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			var threads []models.ChatThread
			tx.Where("profile_id = ?", profile.ID).Find(&threads)
			for _, thread := range threads {
				if err := tx.Where("thread_id = ?", thread.ID).Delete(&models.ChatMessage{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.ChatThread{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		}

		var threads []models.ChatThread
		tx.Where("client_id = ?", user.ID).Find(&threads)
		for _, thread := range threads {
			if err := tx.Where("thread_id = ?", thread.ID).Delete(&models.ChatMessage{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("client_id = ?", user.ID).Delete(&models.ChatThread{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", user.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error deleting account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
