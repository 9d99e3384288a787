package ws

import (
	"time"

	"github.com/google/uuid"
)

// ChatEvent is the wire shape fanned out to chat room subscribers.
type ChatEvent struct {
	Type       string    `json:"type"` // "message"
	MessageID  uuid.UUID `json:"message_id"`
	RoomID     uuid.UUID `json:"room_id"`
	UserID     uuid.UUID `json:"user_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
