package messages

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

// threadSide reports whether the user participates in the thread and, if
// so, whether they sit on the client side of it. The provider side is the
// owner of the thread's profile.
func threadSide(thread *models.ChatThread, userID string) (participant bool, clientSide bool) {
	if thread.ClientID == userID {
		return true, true
	}
	var profile models.Profile
	if err := db.DB.Where("id = ?", thread.ProfileID).First(&profile).Error; err != nil {
		return false, false
	}
	return profile.UserID == userID, false
}

// @Summary Send a message
// @Description Append a message to an accepted thread. Accepts either an explicit (type, payload) pair or the legacy single body string.
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param message body models.ChatMessageCreate true "Message content"
// @Security BearerAuth
// @Success 201 {object} models.ChatMessageView "Created message"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Chat not accepted, not a participant or subscription denied"
// @Failure 404 {object} map[string]string "error: Thread not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /chats/{id}/messages [post]
func SendMessage(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var messageCreate models.ChatMessageCreate
	if err := c.ShouldBindJSON(&messageCreate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
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

	if thread.Status != models.ThreadAccepted {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chat must be accepted"})
		return
	}

	participant, clientSide := threadSide(&thread, user.ID)
	if !participant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a participant can send messages"})
		return
	}

	msgType, payload, body, err := normalizeMessage(messageCreate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if clientSide {
		decision, gateErr := subscriptions.CanInitiateChat(user.ID)
		if gateErr != nil {
			utils.LogErrorWithUser(user.ID, gateErr, "Error checking entitlement in SendMessage")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking entitlement"})
			return
		}
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			return
		}

		typeAllowed, gateErr := subscriptions.CanSendMessageType(user.ID, msgType)
		if gateErr != nil {
			utils.LogErrorWithUser(user.ID, gateErr, "Error checking message type entitlement in SendMessage")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking entitlement"})
			return
		}
		if !typeAllowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your plan does not allow " + string(msgType) + " messages"})
			return
		}
	}

	message := models.ChatMessage{
		ThreadID: thread.ID,
		SenderID: user.ID,
		Type:     msgType,
		Payload:  payload,
		Body:     body,
		Status:   models.MessageSent,
	}

	if result := db.DB.Create(&message); result.Error != nil {
		utils.LogErrorWithUser(user.ID, result.Error, "Error creating message in SendMessage")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating message"})
		return
	}

	if updErr := db.DB.Model(&models.ChatThread{}).Where("id = ?", thread.ID).
		Update("updated_at", time.Now()).Error; updErr != nil {
		utils.LogErrorWithUser(user.ID, updErr, "Error bumping thread in SendMessage")
	}

	if clientSide {
		subscriptions.DeductChatCredit(user.ID)
	}

	c.JSON(http.StatusCreated, models.ChatMessageView{ChatMessage: message, IsMine: true})
}

// @Summary List messages
// @Description Return a thread's messages, oldest first, each annotated with isMine for the requesting participant. The thread's current status is included so clients know whether sending is possible.
// @Tags messages
// @Produce json
// @Param id path string true "Thread ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "threadStatus and messages"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not a participant"
// @Failure 404 {object} map[string]string "error: Thread not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /chats/{id}/messages [get]
func ListMessages(c *gin.Context) {
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

	participant, _ := threadSide(&thread, user.ID)
	if !participant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a participant can read messages"})
		return
	}

	var msgs []models.ChatMessage
	if err := db.DB.Where("thread_id = ?", thread.ID).
		Order("created_at ASC").Find(&msgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving messages"})
		return
	}

	views := make([]models.ChatMessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, models.ChatMessageView{
			ChatMessage: msg,
			IsMine:      msg.SenderID == user.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"threadStatus": thread.Status,
		"messages":     views,
	})
}

// @Summary Update a message's delivery status
// @Description Move a message between sent, delivered and seen. Recipients, not senders, drive delivered/seen transitions.
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "Message ID"
// @Param status body models.ChatMessageStatusUpdate true "New status"
// @Security BearerAuth
// @Success 200 {object} models.ChatMessage "Updated message"
// @Failure 400 {object} map[string]string "error: Invalid status"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Message not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /messages/{id}/status [patch]
func UpdateMessageStatus(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var statusUpdate models.ChatMessageStatusUpdate
	if err := c.ShouldBindJSON(&statusUpdate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	switch statusUpdate.Status {
	case models.MessageSent, models.MessageDelivered, models.MessageSeen:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be sent, delivered or seen"})
		return
	}

	var message models.ChatMessage
	if err := db.DB.Where("id = ?", c.Param("id")).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving message"})
		}
		return
	}

	var thread models.ChatThread
	if err := db.DB.Where("id = ?", message.ThreadID).First(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving thread"})
		return
	}

	participant, _ := threadSide(&thread, user.ID)
	if !participant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a participant can update message status"})
		return
	}

	if message.SenderID == user.ID && statusUpdate.Status != models.MessageSent {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the recipient can mark a message delivered or seen"})
		return
	}

	if err := db.DB.Model(&message).Update("status", statusUpdate.Status).Error; err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error updating message status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating message status"})
		return
	}

	message.Status = statusUpdate.Status
	c.JSON(http.StatusOK, message)
}
