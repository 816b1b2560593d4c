package models

import (
	"time"
)

type SubscriptionPlan string

const (
	PlanBasic     SubscriptionPlan = "BASIC"
	PlanPremium   SubscriptionPlan = "PREMIUM"
	PlanElite     SubscriptionPlan = "ELITE"
	PlanUnlimited SubscriptionPlan = "UNLIMITED"
)

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "ACTIVE"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
)

// Subscription tracks a client's messaging entitlement. At most one row per
// CLIENT user. ChatBalance is meaningless when IsUnlimited is set.
type Subscription struct {
	ID                   string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID               string             `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	Plan                 SubscriptionPlan   `json:"plan" gorm:"type:varchar(20);default:'BASIC'"`
	ChatBalance          int                `json:"chatBalance" gorm:"default:0"`
	IsUnlimited          bool               `json:"isUnlimited" gorm:"default:false"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	ExpiresAt            time.Time          `json:"expiresAt"`
	StripeSubscriptionId string             `json:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}
