package models

import (
	"time"
)

type ThreadStatus string

const (
	ThreadPending  ThreadStatus = "PENDING"
	ThreadAccepted ThreadStatus = "ACCEPTED"
	ThreadRejected ThreadStatus = "REJECTED"
)

// ChatThread is a conversation between one client and one provider profile.
// At most one thread exists per (client, profile) pair.
type ChatThread struct {
	ID        string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClientID  string       `json:"clientId" gorm:"type:uuid;not null;uniqueIndex:idx_chat_threads_client_profile"`
	ProfileID string       `json:"profileId" gorm:"type:uuid;not null;uniqueIndex:idx_chat_threads_client_profile"`
	Status    ThreadStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (ChatThread) TableName() string {
	return "chat_threads"
}

// ChatThreadCreate model for starting (or re-opening) a conversation
// @Description model for creating a chat thread
type ChatThreadCreate struct {
	ProfileID string `json:"profileId" binding:"required"`
}

// ChatThreadStatusUpdate model for the provider accept/reject action
type ChatThreadStatusUpdate struct {
	Status ThreadStatus `json:"status" binding:"required"`
}
