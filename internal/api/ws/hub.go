package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/server/middleware"
	redisstore "github.com/opencampus/campus/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
	chat   domain.ChatRepository
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub, chat domain.ChatRepository) *Hub {
	return &Hub{pubsub: pubsub, chat: chat}
}

// ServeChat handles WebSocket connections for a course chat room.
// Subscribes to Redis channel "chat:<schoolID>:<roomID>" and forwards
// messages to the client in arrival order. The subscription is released when
// the connection tears down, no matter how it tears down; reconnecting is
// the client's job.
func (h *Hub) ServeChat(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := middleware.SchoolIDFromContext(r.Context())
	if !ok || schoolID == uuid.Nil {
		http.Error(w, "missing school", http.StatusBadRequest)
		return
	}

	roomIDStr := chi.URLParam(r, "roomID")
	roomID, err := uuid.Parse(roomIDStr)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	// The room must exist and belong to the caller's school.
	if _, err := h.chat.GetRoom(r.Context(), schoolID, roomID); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	channel := redisstore.ChatChannel(schoolID, roomID)

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// Publish sends an event payload to a Redis channel. Convenience wrapper for
// the chat API handlers that fan out persisted messages.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := h.pubsub.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("ws.Hub.Publish: %w", err)
	}
	return nil
}
