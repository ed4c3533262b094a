package server

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/moodboard/moodboard-server/internal/protocol"
	"github.com/moodboard/moodboard-server/internal/room"
)

var validate = validator.New()

type joinFields struct {
	RoomID string `validate:"required"`
	Name   string `validate:"required,max=50"`
}

// session is the per-connection state machine: unjoined until the first
// valid join frame, then bound to exactly one room until the connection
// closes. No room switching.
type session struct {
	connID   string
	identity string
	sender   room.Sender
	registry *room.Registry

	room *room.Room
	name string
}

func newSession(connID, identity string, sender room.Sender, registry *room.Registry) *session {
	return &session{connID: connID, identity: identity, sender: sender, registry: registry}
}

func (s *session) handle(raw []byte) {
	var msg protocol.Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError("Invalid message format")
		return
	}

	switch msg.Type {
	case protocol.KindJoin:
		s.handleJoin(msg)

	case protocol.KindEmoji:
		if s.room == nil {
			s.sendError("Not in a room")
			return
		}
		s.room.PostEmoji(s.name, msg.Emoji)

	case protocol.KindReaction:
		if s.room == nil {
			s.sendError("Not in a room")
			return
		}
		if err := s.room.React(msg.MessageID, msg.Reaction, s.name, s.identity); err != nil {
			s.sendError(err.Error())
		}

	case protocol.KindStartGame:
		if s.room == nil {
			s.sendError("Not in a room")
			return
		}
		s.room.StartGame(msg.GameType)

	case protocol.KindGameAction:
		if s.room == nil {
			s.sendError("Not in a room")
			return
		}
		if err := s.room.ApplyGameAction(msg.Action, msg.Data, s.name); err != nil {
			s.sendError(err.Error())
		}

	default:
		log.Debug().Str("type", msg.Type).Msg("unknown message type")
	}
}

func (s *session) handleJoin(msg protocol.Inbound) {
	if s.room != nil {
		s.sendError("Already in a room")
		return
	}

	fields := joinFields{
		RoomID: strings.TrimSpace(msg.RoomID),
		Name:   strings.TrimSpace(msg.Name),
	}
	if err := validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "max" {
			s.sendError("Name is too long (max 50 characters)")
		} else {
			s.sendError("Room ID and name are required")
		}
		return
	}

	// A room can be swept between lookup and join; retry against a fresh one.
	for {
		r := s.registry.GetOrCreate(fields.RoomID)
		if err := r.Join(s.connID, fields.Name, s.identity, s.sender); err == nil {
			s.room = r
			s.name = fields.Name
			return
		}
	}
}

func (s *session) sendError(message string) {
	frame, err := json.Marshal(protocol.NewError(message))
	if err != nil {
		return
	}
	_ = s.sender.Send(frame)
}
