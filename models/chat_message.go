package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type MessageType string

const (
	MessageText     MessageType = "TEXT"
	MessageMedia    MessageType = "MEDIA"
	MessageLocation MessageType = "LOCATION"
	MessageVoice    MessageType = "VOICE"
	MessageOffer    MessageType = "OFFER"
	MessageTodo     MessageType = "TODO"
)

type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageSeen      MessageStatus = "seen"
)

// ChatMessage is one entry in a thread's append-only message log.
// Payload holds the type-dependent structured value; Body keeps the
// human-readable text (and the raw legacy body when its embedded JSON
// could not be parsed).
type ChatMessage struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ThreadID  string         `json:"threadId" gorm:"type:uuid;not null;index"`
	SenderID  string         `json:"senderId" gorm:"type:uuid;not null"`
	Type      MessageType    `json:"type" gorm:"type:varchar(20);default:'TEXT'"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	Body      string         `json:"body"`
	Status    MessageStatus  `json:"status" gorm:"type:varchar(10);default:'sent'"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatMessageView is the read-side shape of a message: IsMine is derived
// from the requesting user at read time and never stored.
type ChatMessageView struct {
	ChatMessage
	IsMine bool `json:"isMine"`
}

// ChatMessageCreate model for sending a message. Clients send either an
// explicit (type, payload) pair or the legacy single body string.
type ChatMessageCreate struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Body    string          `json:"body"`
}

// ChatMessageStatusUpdate model for delivery receipts
type ChatMessageStatusUpdate struct {
	Status MessageStatus `json:"status" binding:"required"`
}
