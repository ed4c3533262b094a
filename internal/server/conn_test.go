package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIdentityPrefersForwardedFor(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/ws", nil)
	require.NoError(t, err)
	req.RemoteAddr = "192.0.2.10:52100"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.10")

	assert.Equal(t, "203.0.113.5", clientIdentity(req))
}

func TestClientIdentityFallsBackToRemoteAddr(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/ws", nil)
	require.NoError(t, err)
	req.RemoteAddr = "192.0.2.10:52100"

	assert.Equal(t, "192.0.2.10", clientIdentity(req))
}

func TestSendFailsWhenQueueFull(t *testing.T) {
	c := newWSConn(nil, "192.0.2.10", 1)

	require.NoError(t, c.Send([]byte("one")))
	assert.ErrorIs(t, c.Send([]byte("two")), errSendQueueFull)
}

func TestSendFailsAfterClose(t *testing.T) {
	c := newWSConn(nil, "192.0.2.10", 8)
	c.close()
	assert.ErrorIs(t, c.Send([]byte("late")), errConnClosed)
}

func TestConnIDsAreUnique(t *testing.T) {
	a := newWSConn(nil, "192.0.2.10", 1)
	b := newWSConn(nil, "192.0.2.10", 1)
	assert.NotEqual(t, a.id, b.id)
}
