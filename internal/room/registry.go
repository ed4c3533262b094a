package room

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Options apply to every room a registry creates.
type Options struct {
	// HistoryLimit caps how many messages a room retains (oldest evicted).
	HistoryLimit int
	// EnforceTurns rejects out-of-turn actions on turn-gated games.
	EnforceTurns bool
}

// Registry owns the id -> room mapping. Rooms are created lazily on first
// use and collected by Sweep once empty and idle.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	opts  Options
}

func NewRegistry(opts Options) *Registry {
	return &Registry{rooms: make(map[string]*Room), opts: opts}
}

func (reg *Registry) GetOrCreate(id string) *Room {
	reg.mu.RLock()
	r, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if ok {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok = reg.rooms[id]; !ok {
		r = newRoom(id, reg.opts)
		reg.rooms[id] = r
		log.Info().Str("room", id).Msg("room created")
	}
	return r
}

// Sweep deletes rooms that are empty and inactive past the threshold,
// returning how many were removed. A swept room is marked closed under its
// own lock first, so a concurrent Join observes the closure and retries
// against a fresh room instead of landing in a deleted one.
func (reg *Registry) Sweep(now time.Time, idleThreshold time.Duration) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	removed := 0
	for id, r := range reg.rooms {
		if r.closeIfIdle(now, idleThreshold) {
			delete(reg.rooms, id)
			removed++
			log.Info().Str("room", id).Msg("idle room removed")
		}
	}
	return removed
}

// Count reports how many rooms currently exist, live or dormant.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
