// Package room implements the in-process coordinator: a registry of rooms,
// per-room membership, bounded message history with reactions, and the
// turn-based mini-games multiplexed over each room.
package room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/moodboard/moodboard-server/internal/protocol"
)

// Sender delivers one serialized frame to a live connection. Implementations
// must not block; a frame that cannot be queued should fail immediately so
// the room can treat the connection as dead.
type Sender interface {
	Send(frame []byte) error
}

type member struct {
	name     string
	identity string
	sender   Sender
}

// Room is one broadcast domain. All state behind mu; every exported method
// takes the lock, so concurrent sessions on the same room serialize here.
type Room struct {
	id string

	mu           sync.Mutex
	members      map[string]*member // connection id -> member
	identities   map[string]string  // identity -> connection id
	messages     []*Message
	game         *Game
	lastActivity time.Time
	closed       bool

	historyLimit int
	enforceTurns bool
}

func newRoom(id string, opts Options) *Room {
	return &Room{
		id:           id,
		members:      make(map[string]*member),
		identities:   make(map[string]string),
		lastActivity: time.Now(),
		historyLimit: opts.HistoryLimit,
		enforceTurns: opts.EnforceTurns,
	}
}

// Join binds a connection to the room, broadcasts the updated roster to
// everyone (the joiner included) and replays stored history to the joiner.
// Fails only with ErrRoomClosed when the idle sweep got here first.
func (r *Room) Join(connID, name, identity string, s Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}

	r.members[connID] = &member{name: name, identity: identity, sender: s}
	r.identities[identity] = connID
	r.lastActivity = time.Now()

	log.Info().Str("room", r.id).Str("name", name).Int("members", len(r.members)).Msg("member joined")

	r.broadcastRosterLocked()

	if len(r.messages) > 0 {
		frame, err := json.Marshal(protocol.NewMessages(r.replayLocked(identity)))
		if err == nil {
			// Best effort: a failed replay send will surface on the
			// next broadcast and drop the member then.
			_ = s.Send(frame)
		}
	}
	return nil
}

// Leave removes the connection from the room. Remaining members get a roster
// update; an emptied room stays dormant until the sweep collects it.
func (r *Room) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[connID]; !ok {
		return
	}
	r.removeLocked(connID)
	r.lastActivity = time.Now()

	log.Info().Str("room", r.id).Int("members", len(r.members)).Msg("member left")

	if len(r.members) > 0 {
		r.broadcastRosterLocked()
	}
}

// Roster returns the display names of all current members, in no particular
// order.
func (r *Room) Roster() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

func (r *Room) rosterLocked() []string {
	return lo.Map(lo.Values(r.members), func(m *member, _ int) string { return m.name })
}

func (r *Room) removeLocked(connID string) {
	m, ok := r.members[connID]
	if !ok {
		return
	}
	delete(r.members, connID)
	// A reconnect may have rebound the identity to a newer connection.
	if r.identities[m.identity] == connID {
		delete(r.identities, m.identity)
	}
}

// closeIfIdle marks the room closed and reports true when it has no members
// and has been inactive past the threshold. Holding mu here is what makes
// the sweep decision atomic with respect to concurrent joins.
func (r *Room) closeIfIdle(now time.Time, idleThreshold time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) > 0 || now.Sub(r.lastActivity) <= idleThreshold {
		return false
	}
	r.closed = true
	return true
}

func (r *Room) broadcastRosterLocked() {
	r.broadcastLocked(protocol.NewUsers(r.rosterLocked()))
}

// broadcastLocked serializes the event once and fans it out to the current
// membership snapshot. Connections that refuse the frame are dropped as if
// they had left, followed by a roster update for the survivors.
func (r *Room) broadcastLocked(event any) {
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("room", r.id).Msg("marshal broadcast event")
		return
	}

	var dead []string
	for connID, m := range r.members {
		if err := m.sender.Send(frame); err != nil {
			log.Warn().Str("room", r.id).Str("name", m.name).Err(err).Msg("dropping unreachable member")
			dead = append(dead, connID)
		}
	}
	if len(dead) == 0 {
		return
	}
	for _, connID := range dead {
		r.removeLocked(connID)
	}
	if len(r.members) > 0 {
		r.broadcastRosterLocked()
	}
}
