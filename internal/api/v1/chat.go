package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/opencampus/campus/internal/api/ws"
	"github.com/opencampus/campus/internal/domain"
	redisstore "github.com/opencampus/campus/internal/store/redis"
)

type CourseChatInput struct {
	ID uuid.UUID `path:"id" doc:"Course ID"`
}

type ChatRoomOutput struct {
	Body domain.ChatRoom
}

type ListMessagesInput struct {
	RoomID uuid.UUID `path:"roomID" doc:"Chat room ID"`
	Limit  int       `query:"limit" minimum:"1" maximum:"500" doc:"Max messages to return"`
}

type ListMessagesOutput struct {
	Body []*domain.ChatMessage
}

type PostMessageInput struct {
	RoomID uuid.UUID `path:"roomID" doc:"Chat room ID"`
	Body   struct {
		Content string `json:"content" minLength:"1" maxLength:"4000" doc:"Message text"`
	}
}

type PostMessageOutput struct {
	Body domain.ChatMessage
}

// RegisterChatRoutes registers the per-course chat REST surface. Message
// history is served over HTTP; live delivery rides the websocket hub, fed by
// the Redis channel each room publishes to.
func RegisterChatRoutes(api huma.API, store DataStore, publisher Publisher) {
	huma.Register(api, huma.Operation{
		OperationID: "get-course-chat",
		Method:      http.MethodGet,
		Path:        "/courses/{id}/chat",
		Summary:     "Get or create a course's chat room",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *CourseChatInput) (*ChatRoomOutput, error) {
		schoolID, _, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Courses().GetByID(ctx, schoolID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("course not found")
			}
			return nil, huma.Error500InternalServerError("failed to load course", err)
		}

		room, err := store.Chat().GetOrCreateRoom(ctx, schoolID, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to open chat room", err)
		}

		return &ChatRoomOutput{Body: *room}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-chat-messages",
		Method:      http.MethodGet,
		Path:        "/chat/{roomID}/messages",
		Summary:     "List a room's recent messages",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error) {
		room, err := roomForCaller(ctx, store, input.RoomID)
		if err != nil {
			return nil, err
		}

		messages, err := store.Chat().ListMessages(ctx, room.ID, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list messages", err)
		}

		return &ListMessagesOutput{Body: messages}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "post-chat-message",
		Method:      http.MethodPost,
		Path:        "/chat/{roomID}/messages",
		Summary:     "Post a message to a room",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *PostMessageInput) (*PostMessageOutput, error) {
		schoolID, userID, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}
		room, err := roomForCaller(ctx, store, input.RoomID)
		if err != nil {
			return nil, err
		}

		sender, err := store.Users().GetByID(ctx, schoolID, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load sender", err)
		}

		message := &domain.ChatMessage{
			ID:         uuid.New(),
			RoomID:     room.ID,
			UserID:     sender.ID,
			SenderName: sender.FullName,
			Content:    input.Body.Content,
			CreatedAt:  time.Now(),
		}
		if err := store.Chat().CreateMessage(ctx, message); err != nil {
			return nil, huma.Error500InternalServerError("failed to store message", err)
		}

		if err := publishChatMessage(ctx, publisher, schoolID, message); err != nil {
			// The message is durable; live fan-out is best effort.
			log.Warn().Err(err).Str("room_id", room.ID.String()).Msg("chat publish failed")
		}

		return &PostMessageOutput{Body: *message}, nil
	})
}

func publishChatMessage(ctx context.Context, publisher Publisher, schoolID uuid.UUID, m *domain.ChatMessage) error {
	event := ws.ChatEvent{
		Type:       "message",
		MessageID:  m.ID,
		RoomID:     m.RoomID,
		UserID:     m.UserID,
		SenderName: m.SenderName,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("v1.publishChatMessage: %w", err)
	}

	return publisher.Publish(ctx, redisstore.ChatChannel(schoolID, m.RoomID), payload)
}

// roomForCaller loads a room scoped to the caller's school, so a room ID
// from another tenant reads as not found.
func roomForCaller(ctx context.Context, store DataStore, roomID uuid.UUID) (*domain.ChatRoom, error) {
	schoolID, _, _, err := tenantScope(ctx)
	if err != nil {
		return nil, err
	}

	room, err := store.Chat().GetRoom(ctx, schoolID, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("chat room not found")
		}
		return nil, huma.Error500InternalServerError("failed to load chat room", err)
	}

	return room, nil
}
