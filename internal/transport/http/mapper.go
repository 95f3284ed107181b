package http

import (
	"encoding/json"
	"time"

	"github.com/yapli/yapli-server/internal/core"
	"github.com/yapli/yapli-server/internal/proto"
)

func decode(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventNewMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeNewMessage,
			Data: proto.NewMessageData{
				ID:         event.Message.ID,
				ChatroomID: event.Message.Room,
				Alias:      event.Message.Alias,
				Message:    event.Message.Text,
				Timestamp:  event.Message.Timestamp.Format(time.RFC3339Nano),
			},
		}
	case core.EventUsersUpdated:
		return proto.Outbound{
			Type: proto.OutboundTypeUsersUpdated,
			Data: event.Users,
		}
	case core.EventAliasRejected:
		return proto.Outbound{
			Type: proto.OutboundTypeAliasRejected,
			Data: proto.AliasRejectedData{Reason: event.Reason},
		}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "unknown", Msg: "unknown event"},
		}
	}
}
