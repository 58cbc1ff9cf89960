package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Connection wraps a websocket and coordinates outbound writes via a buffered
// channel. It is safe for concurrent use and implements Conn.
type Connection struct {
	id          string
	userID      string
	established time.Time

	focused atomic.Bool
	state   atomic.Int32

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

var _ Conn = (*Connection)(nil)

// NewConnection constructs a Connection for the given verified user.
func NewConnection(userID string, ws *websocket.Conn) *Connection {
	c := &Connection{
		id:          uuid.NewString(),
		userID:      userID,
		established: time.Now(),
		ws:          ws,
		send:        make(chan []byte, 128),
		close:       make(chan struct{}),
	}
	// A fresh tab has focus until the client says otherwise.
	c.focused.Store(true)
	return c
}

func (c *Connection) ID() string     { return c.id }
func (c *Connection) UserID() string { return c.userID }

// Established reports when the session was opened.
func (c *Connection) Established() time.Time { return c.established }

func (c *Connection) Focused() bool { return c.focused.Load() }

func (c *Connection) SetFocused(focused bool) { c.focused.Store(focused) }

// State returns the current lifecycle state.
func (c *Connection) State() ConnState { return ConnState(c.state.Load()) }

func (c *Connection) MarkJoined() bool {
	return c.state.CompareAndSwap(int32(StateConnecting), int32(StateJoined))
}

func (c *Connection) MarkLeft() bool {
	return c.state.CompareAndSwap(int32(StateJoined), int32(StateLeft))
}

// Start launches the write loop. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. A closed connection reports an error
// instead of accepting the payload, so in-flight fan-outs racing a close
// degrade to a per-connection failure. If the client is slow and the buffer
// is full, the connection is closed to keep backpressure bounded.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.close:
		return errors.New("connection closed")
	default:
	}
	select {
	case <-c.close:
		return errors.New("connection closed")
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

// Close terminates the connection and stops the write loop. The send channel
// is left open: closing it would turn a concurrent Send into a panic, while
// an orphaned buffered payload is simply collected with the connection.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
