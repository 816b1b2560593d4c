package models

import (
	"time"
)

// Profile is a provider's public listing, owned 1:1 by a PROVIDER user
type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID       string    `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName  string    `json:"displayName"`
	Bio          string    `json:"bio"`
	City         string    `json:"city"`
	HourlyRate   int       `json:"hourlyRate"`
	IsOnline     bool      `json:"isOnline" gorm:"default:false"`
	CallsEnabled bool      `json:"callsEnabled" gorm:"default:true"`
	IsVerified   bool      `json:"isVerified" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate model for a provider editing their own listing
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	City        *string `json:"city"`
	HourlyRate  *int    `json:"hourlyRate"`
}

// ProfileAvailabilityUpdate model for toggling availability flags
type ProfileAvailabilityUpdate struct {
	IsOnline     *bool `json:"isOnline"`
	CallsEnabled *bool `json:"callsEnabled"`
}
