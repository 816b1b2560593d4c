package subscriptions

import (
	"errors"
	"time"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"gorm.io/gorm"
)

// planMessageTypes is the static plan -> allowed message kinds table.
// Unknown plans fall back to TEXT only.
var planMessageTypes = map[models.SubscriptionPlan][]models.MessageType{
	models.PlanBasic: {models.MessageText},
	models.PlanPremium: {
		models.MessageText, models.MessageMedia, models.MessageLocation,
	},
	models.PlanElite: {
		models.MessageText, models.MessageMedia, models.MessageLocation,
		models.MessageVoice,
	},
	models.PlanUnlimited: {
		models.MessageText, models.MessageMedia, models.MessageLocation,
		models.MessageVoice, models.MessageOffer, models.MessageTodo,
	},
}

// GateDecision is the outcome of an entitlement check. Reason is only set
// when the action is denied.
type GateDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// GetActiveSubscription returns the user's subscription when it is usable
// (status ACTIVE and not past expiry), nil otherwise. A subscription found
// ACTIVE but expired is marked EXPIRED in place; that write is best-effort
// and never fails the caller.
func GetActiveSubscription(userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.DB.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if sub.Status != models.SubscriptionActive {
		return nil, nil
	}

	if sub.ExpiresAt.Before(time.Now()) {
		// lazy expiry, last write wins under concurrent readers
		if updErr := db.DB.Model(&models.Subscription{}).
			Where("id = ?", sub.ID).
			Update("status", models.SubscriptionExpired).Error; updErr != nil {
			utils.LogErrorWithUser(userID, updErr, "Could not persist subscription expiry")
		}
		return nil, nil
	}

	return &sub, nil
}

// CanInitiateChat decides whether the client may start (or keep using)
// a conversation: an unlimited plan always may, otherwise there must be
// chat credits left.
func CanInitiateChat(userID string) (GateDecision, error) {
	sub, err := GetActiveSubscription(userID)
	if err != nil {
		return GateDecision{}, err
	}
	if sub == nil {
		return GateDecision{Allowed: false, Reason: "no active subscription"}, nil
	}
	if !sub.IsUnlimited && sub.ChatBalance <= 0 {
		return GateDecision{Allowed: false, Reason: "no credits"}, nil
	}
	return GateDecision{Allowed: true}, nil
}

// CanSendMessageType decides whether the client's plan covers the given
// message kind. Denies when there is no usable subscription.
func CanSendMessageType(userID string, msgType models.MessageType) (bool, error) {
	sub, err := GetActiveSubscription(userID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	allowed, known := planMessageTypes[sub.Plan]
	if !known {
		allowed = planMessageTypes[models.PlanBasic]
	}
	for _, t := range allowed {
		if t == msgType {
			return true, nil
		}
	}
	return false, nil
}

// DeductChatCredit burns one credit after a gated send. Pure bookkeeping:
// a single conditional update that is a no-op for unlimited plans, absent
// subscriptions and empty balances. Failures are logged, never surfaced.
func DeductChatCredit(userID string) {
	err := db.DB.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ? AND is_unlimited = ? AND chat_balance > 0",
			userID, models.SubscriptionActive, false).
		Update("chat_balance", gorm.Expr("chat_balance - 1")).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Could not deduct chat credit")
	}
}
