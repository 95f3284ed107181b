package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/yapli/yapli-server/internal/config"
	"github.com/yapli/yapli-server/internal/core"
	"github.com/yapli/yapli-server/internal/proto"
	"github.com/yapli/yapli-server/internal/store"
)

// WSHandler upgrades HTTP connections and bridges them to the coordinator.
// Each websocket session maps to exactly one core.Conn for its lifetime.
type WSHandler struct {
	coord *core.Coordinator
	store store.RoomStore
	cfg   *config.Config
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(coord *core.Coordinator, st store.RoomStore, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{coord: coord, store: st, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.AllowedOrigins,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := h.coord.Connect()
	defer h.coord.Disconnect(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Conn) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		protoErr, err := h.dispatch(ctx, client, inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("failed to decode inbound")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
		}
	}
}

// dispatch validates an inbound event and hands it to the coordinator.
// Room existence is the room store's call, not the core's; length limits
// are enforced here so the core only ever sees pre-validated input.
func (h *WSHandler) dispatch(ctx context.Context, client *core.Conn, inbound proto.Inbound) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := decode(inbound.Data, &join); err != nil {
			return nil, err
		}
		if join.RoomID == "" {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		exists, err := h.store.RoomExists(ctx, join.RoomID)
		if err != nil {
			h.log.Error().Err(err).Str("room", join.RoomID).Msg("room existence check failed")
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room lookup failed"}, nil
		}
		if !exists {
			return &proto.Error{Code: core.ErrCodeRoomNotFound, Msg: "room not found"}, nil
		}
		h.coord.JoinRoom(client, join.RoomID)
		return nil, nil

	case proto.InboundTypeSetAlias:
		var set proto.SetAliasData
		if err := decode(inbound.Data, &set); err != nil {
			return nil, err
		}
		if set.Alias == "" || len(set.Alias) > h.cfg.AliasMaxLen {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid alias"}, nil
		}
		h.coord.SetAlias(client, set.Alias)
		return nil, nil

	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := decode(inbound.Data, &msg); err != nil {
			return nil, err
		}
		if msg.RoomID == "" || msg.Message == "" || len(msg.Message) > h.cfg.MessageMaxLen {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid message"}, nil
		}
		h.coord.SendMessage(client, msg.RoomID, msg.Alias, msg.Message)
		return nil, nil

	default:
		return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown event type"}, nil
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Conn) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
