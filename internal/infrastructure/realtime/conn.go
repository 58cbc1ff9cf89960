package realtime

// ConnState tracks the lifecycle of a single session:
// Connecting -> Joined -> Left. Left is terminal and entered exactly once.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateJoined
	StateLeft
)

// Conn is one live bidirectional session belonging to exactly one
// authenticated user. The Registry and the fan-out paths only depend on this
// interface; the websocket-backed implementation lives in Connection.
type Conn interface {
	// ID is the opaque per-session identifier.
	ID() string

	// UserID is the verified identity that owns the session. Empty means the
	// transport never attached an identity and every hub operation must be
	// rejected.
	UserID() string

	// Focused reports the per-connection focus flag.
	Focused() bool

	// SetFocused updates the focus flag.
	SetFocused(focused bool)

	// MarkJoined transitions Connecting -> Joined. Returns false if the
	// session already joined or already left.
	MarkJoined() bool

	// MarkLeft transitions Joined -> Left. Returns false if the session never
	// joined or left already, so leave handling runs at most once.
	MarkLeft() bool

	// Send enqueues payload for delivery. Sends on a closed or saturated
	// session fail with an error; callers treat that as best-effort loss.
	Send(payload []byte) error

	// Close terminates the session. Safe to call more than once.
	Close(code int, reason string)
}
