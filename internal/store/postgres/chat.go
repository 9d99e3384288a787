package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencampus/campus/internal/domain"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

// GetOrCreateRoom relies on a unique (school_id, course_id) constraint; the
// upsert makes concurrent first-access racers converge on one room.
func (r *ChatRepo) GetOrCreateRoom(ctx context.Context, schoolID, courseID uuid.UUID) (*domain.ChatRoom, error) {
	var room domain.ChatRoom

	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_rooms (id, school_id, course_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (school_id, course_id) DO UPDATE SET course_id = EXCLUDED.course_id
		 RETURNING id, school_id, course_id, created_at`,
		uuid.New(), schoolID, courseID, time.Now().UTC(),
	).Scan(&room.ID, &room.SchoolID, &room.CourseID, &room.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetOrCreateRoom: %w", err)
	}

	return &room, nil
}

func (r *ChatRepo) GetRoom(ctx context.Context, schoolID, roomID uuid.UUID) (*domain.ChatRoom, error) {
	var room domain.ChatRoom

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, course_id, created_at
		 FROM chat_rooms WHERE id = $1 AND school_id = $2`,
		roomID, schoolID,
	).Scan(&room.ID, &room.SchoolID, &room.CourseID, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("chatRepo.GetRoom: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetRoom: %w", err)
	}

	return &room, nil
}

func (r *ChatRepo) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, room_id, user_id, sender_name, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.RoomID, m.UserID, m.SenderName, m.Content, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("chatRepo.CreateMessage: %w", err)
	}

	return nil
}

// ListMessages returns the most recent messages in chronological order.
func (r *ChatRepo) ListMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, room_id, user_id, sender_name, content, created_at FROM (
		   SELECT id, room_id, user_id, sender_name, content, created_at
		   FROM chat_messages WHERE room_id = $1
		   ORDER BY created_at DESC LIMIT $2
		 ) recent ORDER BY created_at`,
		roomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.ListMessages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage

		err = rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.SenderName, &m.Content, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("chatRepo.ListMessages: scan: %w", err)
		}

		messages = append(messages, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("chatRepo.ListMessages: %w", err)
	}

	return messages, nil
}
