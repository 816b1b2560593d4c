package threads

import (
	"errors"
	"net/http"
	"time"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/handlers/subscriptions"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Start a conversation
// @Description Create a chat thread with a provider profile. Re-posting for an existing pair is not an error: the existing thread is returned with a refreshed timestamp.
// @Tags threads
// @Accept json
// @Produce json
// @Param thread body models.ChatThreadCreate true "Thread information"
// @Security BearerAuth
// @Success 200 {object} models.ChatThread "Existing thread"
// @Success 201 {object} models.ChatThread "Created thread"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Subscription denied"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /chats [post]
func CreateThread(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var threadCreate models.ChatThreadCreate
	if err := c.ShouldBindJSON(&threadCreate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var profile models.Profile
	if err := db.DB.Where("id = ?", threadCreate.ProfileID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying profile"})
		}
		return
	}

	var existing models.ChatThread
	err := db.DB.Where("client_id = ? AND profile_id = ?", user.ID, profile.ID).First(&existing).Error
	if err == nil {
		// get-or-start: re-opening a conversation just refreshes it
		if updErr := db.DB.Model(&existing).Update("updated_at", time.Now()).Error; updErr != nil {
			utils.LogErrorWithUser(user.ID, updErr, "Error refreshing thread in CreateThread")
		}
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error looking up thread"})
		return
	}

	if user.Role == models.ClientRole {
		decision, gateErr := subscriptions.CanInitiateChat(user.ID)
		if gateErr != nil {
			utils.LogErrorWithUser(user.ID, gateErr, "Error checking entitlement in CreateThread")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking entitlement"})
			return
		}
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			return
		}
	}

	thread := models.ChatThread{
		ClientID:  user.ID,
		ProfileID: profile.ID,
		Status:    models.ThreadPending,
	}
	if result := db.DB.Create(&thread); result.Error != nil {
		utils.LogErrorWithUser(user.ID, result.Error, "Error creating thread in CreateThread")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating thread"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Chat thread created")
	c.JSON(http.StatusCreated, thread)
}

// @Summary List my conversations
// @Description List the authenticated user's threads, newest activity first, each with the counterpart's display identity and the most recent message.
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} object "List of threads"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /chats [get]
func ListThreads(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var threads []models.ChatThread

	if user.Role == models.ProviderRole {
		var profile models.Profile
		if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"threads": []models.ChatThread{}})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching profile"})
			}
			return
		}
		if err := db.DB.Where("profile_id = ?", profile.ID).
			Order("updated_at DESC").Find(&threads).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving threads"})
			return
		}
	} else {
		if err := db.DB.Where("client_id = ?", user.ID).
			Order("updated_at DESC").Find(&threads).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving threads"})
			return
		}
	}

	type ThreadPreview struct {
		models.ChatThread
		CounterpartName string              `json:"counterpartName"`
		LastMessage     *models.ChatMessage `json:"lastMessage,omitempty"`
	}

	previews := make([]ThreadPreview, 0, len(threads))

	for _, thread := range threads {
		preview := ThreadPreview{ChatThread: thread}

		if user.Role == models.ProviderRole {
			var client models.User
			db.DB.Select("name").Where("id = ?", thread.ClientID).First(&client)
			preview.CounterpartName = client.Name
		} else {
			var profile models.Profile
			db.DB.Select("display_name").Where("id = ?", thread.ProfileID).First(&profile)
			preview.CounterpartName = profile.DisplayName
		}

		var last models.ChatMessage
		if err := db.DB.Where("thread_id = ?", thread.ID).
			Order("created_at DESC").First(&last).Error; err == nil {
			preview.LastMessage = &last
		}

		previews = append(previews, preview)
	}

	c.JSON(http.StatusOK, gin.H{"threads": previews})
}

// @Summary Accept or reject a conversation
// @Description Move a pending thread to ACCEPTED or REJECTED. Only the provider owning the profile may transition; rejected threads stay rejected.
// @Tags threads
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param status body models.ChatThreadStatusUpdate true "New status"
// @Security BearerAuth
// @Success 200 {object} models.ChatThread "Updated thread"
// @Failure 400 {object} map[string]string "error: Invalid status"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Thread not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /chats/{id}/status [patch]
func UpdateThreadStatus(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var statusUpdate models.ChatThreadStatusUpdate
	if err := c.ShouldBindJSON(&statusUpdate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	if statusUpdate.Status != models.ThreadAccepted && statusUpdate.Status != models.ThreadRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be ACCEPTED or REJECTED"})
		return
	}

	var thread models.ChatThread
	if err := db.DB.Where("id = ?", c.Param("id")).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving thread"})
		}
		return
	}

	var profile models.Profile
	if err := db.DB.Where("id = ?", thread.ProfileID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving profile"})
		return
	}
	if profile.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the profile owner can update the thread status"})
		return
	}

	if thread.Status == models.ThreadRejected {
		c.JSON(http.StatusForbidden, gin.H{"error": "A rejected thread cannot be reopened"})
		return
	}

	if err := db.DB.Model(&thread).Updates(map[string]interface{}{
		"status":     statusUpdate.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error updating thread status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating thread status"})
		return
	}

	thread.Status = statusUpdate.Status
	utils.LogSuccessWithUser(user.ID, "Thread status updated to "+string(statusUpdate.Status))
	c.JSON(http.StatusOK, thread)
}

// @Summary Delete a conversation
// @Description Hard-delete a thread and all of its messages. Either participant may delete.
// @Tags threads
// @Produce json
// @Param id path string true "Thread ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Thread deleted"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Thread not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /chats/{id} [delete]
func DeleteThread(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var thread models.ChatThread
	if err := db.DB.Where("id = ?", c.Param("id")).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving thread"})
		}
		return
	}

	isParticipant := thread.ClientID == user.ID
	if !isParticipant {
		var profile models.Profile
		if err := db.DB.Where("id = ?", thread.ProfileID).First(&profile).Error; err == nil {
			isParticipant = profile.UserID == user.ID
		}
	}
	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a participant can delete the thread"})
		return
	}

	if err := db.DB.Where("thread_id = ?", thread.ID).Delete(&models.ChatMessage{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting messages"})
		return
	}
	if err := db.DB.Delete(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting thread"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Chat thread deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Thread deleted"})
}
