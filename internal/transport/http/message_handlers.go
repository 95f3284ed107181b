package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yapli/yapli-server/internal/config"
	"github.com/yapli/yapli-server/internal/core"
	"github.com/yapli/yapli-server/internal/store"
)

// MessageHandlers provides HTTP handlers for message history and append.
// Appends also relay through the injected coordinator so connected room
// members see the message without waiting for a history reload.
type MessageHandlers struct {
	coord *core.Coordinator
	store store.Store
	cfg   *config.Config
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(coord *core.Coordinator, st store.Store, cfg *config.Config, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		coord: coord,
		store: st,
		cfg:   cfg,
		log:   logger,
	}
}

// AppendMessageRequest represents the append message request body.
type AppendMessageRequest struct {
	Alias   string `json:"alias" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// MessageResponse represents a persisted message in API responses.
type MessageResponse struct {
	ID         int64  `json:"id"`
	ChatroomID string `json:"chatroomId"`
	Alias      string `json:"alias"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

// ListMessages returns a room's message history, oldest first. Clients
// fetch this on join; the relay never replays missed messages.
// GET /api/rooms/:code/messages
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	room, ok := h.loadRoom(c)
	if !ok {
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), room.ID)
	if err != nil {
		h.log.Error().Err(err).Str("code", room.Code).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, MessageResponse{
			ID:         m.ID,
			ChatroomID: room.Code,
			Alias:      m.Alias,
			Message:    m.Body,
			Timestamp:  m.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// AppendMessage validates, persists, and relays a chat message.
// POST /api/rooms/:code/messages
func (h *MessageHandlers) AppendMessage(c *gin.Context) {
	room, ok := h.loadRoom(c)
	if !ok {
		return
	}

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "alias and message are required"})
		return
	}

	alias := strings.TrimSpace(req.Alias)
	body := strings.TrimSpace(req.Message)
	if alias == "" || len(alias) > h.cfg.AliasMaxLen {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid alias"})
		return
	}
	if body == "" || len(body) > h.cfg.MessageMaxLen {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message"})
		return
	}

	saved, err := h.store.AppendMessage(c.Request.Context(), room.ID, alias, body)
	if err != nil {
		h.log.Error().Err(err).Str("code", room.Code).Msg("failed to append message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	// Best-effort fan-out to whoever is connected right now.
	h.coord.Relay(room.Code, alias, body)

	c.JSON(http.StatusCreated, MessageResponse{
		ID:         saved.ID,
		ChatroomID: room.Code,
		Alias:      saved.Alias,
		Message:    saved.Body,
		Timestamp:  saved.CreatedAt.Format(time.RFC3339),
	})
}

func (h *MessageHandlers) loadRoom(c *gin.Context) (*store.Room, bool) {
	code := c.Param("code")
	room, err := h.store.GetRoomByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return nil, false
		}
		h.log.Error().Err(err).Str("code", code).Msg("failed to load room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return nil, false
	}
	return room, true
}
