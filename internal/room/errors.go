package room

import "errors"

// Error text doubles as the wire message sent back to the offending client.
var (
	ErrMessageNotFound = errors.New("Message not found")
	ErrNoActiveGame    = errors.New("No active game")

	// ErrRoomClosed means the room lost the race against the idle sweep;
	// callers should fetch a fresh room from the registry and retry.
	ErrRoomClosed = errors.New("room closed")
)
