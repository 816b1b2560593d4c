package models

import (
	"time"
)

type Role string

const (
	ClientRole   Role = "CLIENT"
	ProviderRole Role = "PROVIDER"
	AdminRole    Role = "ADMIN"
)

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserPending   UserStatus = "PENDING"
	UserSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	Password         string     `json:"-"`
	Name             string     `json:"name"`
	Role             Role       `json:"role" gorm:"type:varchar(20);default:'CLIENT'"`
	Status           UserStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	SessionSubject   *string    `json:"-" gorm:"uniqueIndex"` // stable subject id from the external session provider
	StripeCustomerId string     `json:"stripeCustomerId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// UserRegister model for the signup endpoint
// @Description model for creating an account
type UserRegister struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// UserLogin model for the login endpoint
type UserLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserStatusUpdate model for admin moderation
type UserStatusUpdate struct {
	Status UserStatus `json:"status" binding:"required"`
}
