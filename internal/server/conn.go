package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	errConnClosed    = errors.New("connection closed")
	errSendQueueFull = errors.New("send queue full")
)

// wsConn wraps a websocket behind a buffered outbound queue so that one slow
// or dead client can never stall a room broadcast. Each connection gets an
// opaque id at accept time; rooms key membership by that id, never by the
// socket itself.
type wsConn struct {
	id       string
	identity string
	sock     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

func newWSConn(sock *websocket.Conn, identity string, buffer int) *wsConn {
	return &wsConn{
		id:       uuid.New().String(),
		identity: identity,
		sock:     sock,
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
}

// Send queues one frame. It fails fast when the connection is gone or the
// queue is full, which the room treats as a disconnect.
func (c *wsConn) Send(frame []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *wsConn) writeLoop() {
	defer c.sock.Close()
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			if err := c.sock.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug().Str("conn", c.id).Err(err).Msg("write failed")
				c.close()
				return
			}
		}
	}
}

func (c *wsConn) close() {
	c.once.Do(func() { close(c.done) })
}

// clientIdentity derives the deduplication identity for a connection: the
// first X-Forwarded-For entry when present, otherwise the remote host.
func clientIdentity(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
