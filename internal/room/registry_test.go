package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameRoom(t *testing.T) {
	reg := NewRegistry(Options{HistoryLimit: 100})
	r1 := reg.GetOrCreate("standup")
	r2 := reg.GetOrCreate("standup")
	assert.Same(t, r1, r2)
	assert.Equal(t, 1, reg.Count())
}

func TestSweepRemovesIdleEmptyRooms(t *testing.T) {
	reg := NewRegistry(Options{HistoryLimit: 100})
	reg.GetOrCreate("abandoned")

	// Not idle long enough yet.
	assert.Zero(t, reg.Sweep(time.Now().Add(10*time.Minute), 30*time.Minute))
	assert.Equal(t, 1, reg.Count())

	assert.Equal(t, 1, reg.Sweep(time.Now().Add(31*time.Minute), 30*time.Minute))
	assert.Zero(t, reg.Count())
}

func TestSweepNeverRemovesOccupiedRooms(t *testing.T) {
	reg := NewRegistry(Options{HistoryLimit: 100})
	r := reg.GetOrCreate("occupied")
	require.NoError(t, r.Join("c1", "Alice", "10.0.0.1", &fakeSender{}))

	assert.Zero(t, reg.Sweep(time.Now().Add(24*time.Hour), 30*time.Minute))
	assert.Equal(t, 1, reg.Count())
}

// A join racing the sweep must not land in a deleted room: the stale
// reference fails with ErrRoomClosed and a retry gets a fresh room.
func TestSweptRoomRejectsLateJoin(t *testing.T) {
	reg := NewRegistry(Options{HistoryLimit: 100})
	stale := reg.GetOrCreate("racy")

	require.Equal(t, 1, reg.Sweep(time.Now().Add(31*time.Minute), 30*time.Minute))
	assert.ErrorIs(t, stale.Join("c1", "Alice", "10.0.0.1", &fakeSender{}), ErrRoomClosed)

	fresh := reg.GetOrCreate("racy")
	assert.NotSame(t, stale, fresh)
	require.NoError(t, fresh.Join("c1", "Alice", "10.0.0.1", &fakeSender{}))
}
