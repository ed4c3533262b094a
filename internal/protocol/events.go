// Package protocol defines the JSON frames exchanged with clients.
package protocol

import "encoding/json"

// Inbound is the envelope for every client frame. The Type field selects
// which of the remaining fields are meaningful.
type Inbound struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"roomId,omitempty"`
	Name      string          `json:"name,omitempty"`
	Emoji     string          `json:"emoji,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Reaction  string          `json:"reaction,omitempty"`
	GameType  string          `json:"gameType,omitempty"`
	Initiator string          `json:"initiator,omitempty"`
	Action    string          `json:"action,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Inbound frame kinds.
const (
	KindJoin       = "join"
	KindEmoji      = "emoji"
	KindReaction   = "reaction"
	KindStartGame  = "startGame"
	KindGameAction = "gameAction"
)

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: message}
}

// UsersEvent carries the current roster of a room.
type UsersEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

func NewUsers(users []string) UsersEvent {
	return UsersEvent{Type: "users", Users: users}
}

// MessageView is a posted emoji message as seen by one viewer. Reactions map
// label -> reactor display name -> whether the viewer is that reactor. Raw
// identities never appear on the wire.
type MessageView struct {
	Type      string                     `json:"type"`
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Emoji     string                     `json:"emoji"`
	Timestamp string                     `json:"timestamp"`
	Reactions map[string]map[string]bool `json:"reactions"`
}

// MessagesEvent is the history replay sent once, right after a join.
type MessagesEvent struct {
	Type     string        `json:"type"`
	Messages []MessageView `json:"messages"`
}

func NewMessages(messages []MessageView) MessagesEvent {
	return MessagesEvent{Type: "messages", Messages: messages}
}

type ReactionEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
	Name      string `json:"name"`
	Status    bool   `json:"status"`
}

type GameStartEvent struct {
	Type        string `json:"type"`
	GameType    string `json:"gameType"`
	InitialData any    `json:"initialData"`
	FirstPlayer string `json:"firstPlayer"`
}

type GameUpdateEvent struct {
	Type       string `json:"type"`
	GameData   any    `json:"gameData"`
	NextPlayer string `json:"nextPlayer"`
}

type GameEndEvent struct {
	Type   string         `json:"type"`
	Scores map[string]int `json:"scores"`
}
