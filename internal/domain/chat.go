package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatRoom is the per-course message room, created lazily on first access.
type ChatRoom struct {
	ID        uuid.UUID `json:"id"`
	SchoolID  uuid.UUID `json:"school_id"`
	CourseID  uuid.UUID `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is one entry of a room's append-only ordered log.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	UserID     uuid.UUID `json:"user_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ChatRepository interface {
	// GetOrCreateRoom returns the course's room, creating it on first use.
	GetOrCreateRoom(ctx context.Context, schoolID, courseID uuid.UUID) (*ChatRoom, error)
	GetRoom(ctx context.Context, schoolID, roomID uuid.UUID) (*ChatRoom, error)
	CreateMessage(ctx context.Context, m *ChatMessage) error
	ListMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]*ChatMessage, error)
}
