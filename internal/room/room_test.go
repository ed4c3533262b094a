package room

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	frames [][]byte
	fail   bool
}

func (f *fakeSender) Send(frame []byte) error {
	if f.fail {
		return errors.New("connection gone")
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeSender) frameTypes(t *testing.T) []string {
	t.Helper()
	types := make([]string, 0, len(f.frames))
	for _, frame := range f.frames {
		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(frame, &envelope))
		types = append(types, envelope.Type)
	}
	return types
}

func (f *fakeSender) decode(t *testing.T, i int, v any) {
	t.Helper()
	require.Less(t, i, len(f.frames))
	require.NoError(t, json.Unmarshal(f.frames[i], v))
}

func testRoom() *Room {
	return newRoom("R1", Options{HistoryLimit: 100})
}

func TestJoinBroadcastsRoster(t *testing.T) {
	r := testRoom()
	alice := &fakeSender{}
	bob := &fakeSender{}

	require.NoError(t, r.Join("c1", "Alice", "10.0.0.1", alice))
	require.NoError(t, r.Join("c2", "Bob", "10.0.0.2", bob))

	var first struct {
		Users []string `json:"users"`
	}
	alice.decode(t, 0, &first)
	assert.ElementsMatch(t, []string{"Alice"}, first.Users)

	var second struct {
		Users []string `json:"users"`
	}
	alice.decode(t, 1, &second)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, second.Users)

	bob.decode(t, 0, &second)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, second.Users)
}

func TestJoinClosedRoom(t *testing.T) {
	r := testRoom()
	require.True(t, r.closeIfIdle(time.Now().Add(31*time.Minute), 30*time.Minute))
	assert.ErrorIs(t, r.Join("c1", "Alice", "10.0.0.1", &fakeSender{}), ErrRoomClosed)
}

func TestLeaveBroadcastsRemainingRoster(t *testing.T) {
	r := testRoom()
	alice := &fakeSender{}
	bob := &fakeSender{}
	require.NoError(t, r.Join("c1", "Alice", "10.0.0.1", alice))
	require.NoError(t, r.Join("c2", "Bob", "10.0.0.2", bob))

	r.Leave("c2")

	var roster struct {
		Users []string `json:"users"`
	}
	alice.decode(t, len(alice.frames)-1, &roster)
	assert.Equal(t, []string{"Alice"}, roster.Users)

	// Last member leaving triggers no broadcast.
	before := len(alice.frames)
	r.Leave("c1")
	assert.Len(t, alice.frames, before)
	assert.Empty(t, r.Roster())
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	r := testRoom()
	alice := &fakeSender{}
	bob := &fakeSender{}
	require.NoError(t, r.Join("c1", "Alice", "10.0.0.1", alice))
	require.NoError(t, r.Join("c2", "Bob", "10.0.0.2", bob))

	bob.fail = true
	r.PostEmoji("Alice", "😀")

	assert.Equal(t, []string{"Alice"}, r.Roster())
	// Alice saw the message and then the roster update caused by the drop.
	types := alice.frameTypes(t)
	assert.Equal(t, "emoji", types[len(types)-2])
	assert.Equal(t, "users", types[len(types)-1])
}

// Mirrors the canonical two-user session: roster, roster, message, reaction.
func TestTwoUserBroadcastOrder(t *testing.T) {
	r := testRoom()
	alice := &fakeSender{}
	bob := &fakeSender{}

	require.NoError(t, r.Join("c1", "Alice", "10.0.0.1", alice))
	require.NoError(t, r.Join("c2", "Bob", "10.0.0.2", bob))

	r.PostEmoji("Alice", "😀")

	var posted struct {
		ID string `json:"id"`
	}
	alice.decode(t, 2, &posted)
	require.NoError(t, r.React(posted.ID, "❤️", "Bob", "10.0.0.2"))

	assert.Equal(t, []string{"users", "users", "emoji", "reaction"}, alice.frameTypes(t))

	var reaction struct {
		MessageID string `json:"messageId"`
		Reaction  string `json:"reaction"`
		Name      string `json:"name"`
		Status    bool   `json:"status"`
	}
	alice.decode(t, 3, &reaction)
	assert.Equal(t, posted.ID, reaction.MessageID)
	assert.Equal(t, "❤️", reaction.Reaction)
	assert.Equal(t, "Bob", reaction.Name)
	assert.True(t, reaction.Status)
}
