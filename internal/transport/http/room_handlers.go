package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yapli/yapli-server/internal/store"
	"github.com/yapli/yapli-server/internal/utils"
)

// RoomHandlers provides HTTP handlers for room management endpoints.
type RoomHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		log:   logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Title string `json:"title" binding:"required,min=1,max=100"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	MessageCount int64  `json:"messageCount"`
	CreatedAt    string `json:"createdAt"`
}

// CheckRoomRequest represents the room existence check request body.
type CheckRoomRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
}

// CheckRoomResponse reports whether a room code resolves to a live room.
type CheckRoomResponse struct {
	Exists bool   `json:"exists"`
	Code   string `json:"code,omitempty"`
}

// CreateRoom creates a room with a freshly generated shareable code.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	uid, ok := hostID(c)
	if !ok {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	// Codes are random; retry the rare collision against the unique index.
	var room *store.Room
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.NewRoomCode()
		if err != nil {
			h.log.Error().Err(err).Msg("failed to generate room code")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		room, err = h.store.CreateRoom(c.Request.Context(), code, req.Title, uid)
		if err == nil {
			break
		}
		if !strings.Contains(err.Error(), "UNIQUE") {
			h.log.Error().Err(err).Str("title", req.Title).Msg("failed to create room")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		room = nil
	}
	if room == nil {
		h.log.Error().Msg("exhausted room code attempts")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("code", room.Code).Int64("owner_id", uid).Msg("room created")
	c.JSON(http.StatusCreated, RoomResponse{
		ID:        room.ID,
		Code:      room.Code,
		Title:     room.Title,
		CreatedAt: room.CreatedAt.Format(time.RFC3339),
	})
}

// ListRooms lists the authenticated host's rooms with message counts.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	uid, ok := hostID(c)
	if !ok {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	rooms, err := h.store.ListRoomsByOwner(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, RoomResponse{
			ID:           room.ID,
			Code:         room.Code,
			Title:        room.Title,
			MessageCount: room.MessageCount,
			CreatedAt:    room.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// DeleteRoom deletes a room the authenticated host owns, with its messages.
// DELETE /api/rooms/:code
func (h *RoomHandlers) DeleteRoom(c *gin.Context) {
	uid, ok := hostID(c)
	if !ok {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	code := c.Param("code")
	room, err := h.store.GetRoomByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("code", code).Msg("failed to load room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if room.OwnerID != uid {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not your room"})
		return
	}

	if err := h.store.DeleteRoom(c.Request.Context(), room.ID); err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("failed to delete room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("code", code).Int64("owner_id", uid).Msg("room deleted")
	c.Status(http.StatusNoContent)
}

// CheckRoom reports whether a candidate room code resolves to a room.
// Consulted by clients before opening a websocket join.
// POST /api/rooms/check
func (h *RoomHandlers) CheckRoom(c *gin.Context) {
	var req CheckRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room code is required"})
		return
	}

	code := strings.ToLower(strings.TrimSpace(req.RoomCode))
	if !utils.ValidRoomCode(code) {
		c.JSON(http.StatusBadRequest, CheckRoomResponse{Exists: false})
		return
	}

	exists, err := h.store.RoomExists(c.Request.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("failed to check room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := CheckRoomResponse{Exists: exists}
	if exists {
		resp.Code = code
	}
	c.JSON(http.StatusOK, resp)
}
