package models

import (
	"time"
)

// Favorite bookmarks a provider profile for a client
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClientID  string    `json:"clientId" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_client_profile"`
	ProfileID string    `json:"profileId" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_client_profile"`
	CreatedAt time.Time `json:"createdAt"`
}

// FavoriteCreate model for bookmarking a profile
type FavoriteCreate struct {
	ProfileID string `json:"profileId" binding:"required"`
}
