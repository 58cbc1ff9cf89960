package realtime

import (
	"fmt"
	"sync"
	"testing"
)

// fakeConn is an in-memory Conn for registry tests.
type fakeConn struct {
	id      string
	userID  string
	mu      sync.Mutex
	focused bool
	state   ConnState
	sent    [][]byte
	closed  bool
}

func newFakeConn(id, userID string) *fakeConn {
	return &fakeConn{id: id, userID: userID, focused: true}
}

func (f *fakeConn) ID() string     { return f.id }
func (f *fakeConn) UserID() string { return f.userID }

func (f *fakeConn) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

func (f *fakeConn) SetFocused(focused bool) {
	f.mu.Lock()
	f.focused = focused
	f.mu.Unlock()
}

func (f *fakeConn) MarkJoined() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateConnecting {
		return false
	}
	f.state = StateJoined
	return true
}

func (f *fakeConn) MarkLeft() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateJoined {
		return false
	}
	f.state = StateLeft
	return true
}

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("connection closed")
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeConn) Close(code int, reason string) {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func TestRegisterReportsOnlineTransitionOnce(t *testing.T) {
	r := NewRegistry()

	first := newFakeConn("c1", "alice")
	second := newFakeConn("c2", "alice")

	if !r.Register("alice", first) {
		t.Error("first connection should report offline->online")
	}
	if r.Register("alice", second) {
		t.Error("second connection must not report a transition")
	}
	if !r.IsOnline("alice") {
		t.Error("alice should be online with two connections")
	}
}

func TestUnregisterReportsOfflineOnLastConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("alice", newFakeConn("c1", "alice"))
	r.Register("alice", newFakeConn("c2", "alice"))

	if r.Unregister("alice", "c1") {
		t.Error("one connection remains; no offline transition expected")
	}
	if !r.IsOnline("alice") {
		t.Error("alice should still be online")
	}
	if !r.Unregister("alice", "c2") {
		t.Error("last connection removed; offline transition expected")
	}
	if r.IsOnline("alice") {
		t.Error("alice should be offline")
	}
	if got := len(r.OnlineUsers()); got != 0 {
		t.Errorf("OnlineUsers() has %d entries, want 0", got)
	}
}

func TestUnregisterUnknownConnectionIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Register("alice", newFakeConn("c1", "alice"))

	if r.Unregister("alice", "no-such-conn") {
		t.Error("unknown connection must not report a transition")
	}
	if r.Unregister("bob", "c1") {
		t.Error("unknown user must not report a transition")
	}
	if !r.IsOnline("alice") {
		t.Error("alice should still be online")
	}
}

func TestSetFocusOnClosedConnectionFailsSilently(t *testing.T) {
	r := NewRegistry()
	conn := newFakeConn("c1", "alice")
	r.Register("alice", conn)
	r.Unregister("alice", "c1")

	// Must not panic or resurrect the connection.
	r.SetFocus("c1", false)
	if r.IsOnline("alice") {
		t.Error("SetFocus must not re-register a removed connection")
	}
}

func TestIsFocusedRequiresAtLeastOneFocusedConnection(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("c1", "alice")
	b := newFakeConn("c2", "alice")
	r.Register("alice", a)
	r.Register("alice", b)

	r.SetFocus("c1", false)
	if !r.IsFocused("alice") {
		t.Error("one connection still has focus")
	}
	r.SetFocus("c2", false)
	if r.IsFocused("alice") {
		t.Error("no connection has focus")
	}
}

func TestConnectionsOfReturnsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register("alice", newFakeConn("c1", "alice"))

	snapshot := r.ConnectionsOf("alice")
	if len(snapshot) != 1 {
		t.Fatalf("snapshot has %d connections, want 1", len(snapshot))
	}

	// Mutating the registry afterwards must not change the snapshot.
	r.Register("alice", newFakeConn("c2", "alice"))
	r.Unregister("alice", "c1")
	if len(snapshot) != 1 {
		t.Errorf("snapshot changed after registry mutation: %d entries", len(snapshot))
	}
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry()
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%4)
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("conn-%d-%d", i, j)
				r.Register(user, newFakeConn(id, user))
				_ = r.ConnectionsOf(user)
				_ = r.OnlineUsers()
				r.Unregister(user, id)
			}
		}(i)
	}
	wg.Wait()

	if got := r.Len(); got != 0 {
		t.Errorf("registry has %d connections after all workers finished, want 0", got)
	}
	if got := len(r.OnlineUsers()); got != 0 {
		t.Errorf("OnlineUsers() has %d entries, want 0", got)
	}
}

func TestCloseTerminatesAllConnections(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("c1", "alice")
	b := newFakeConn("c2", "bob")
	r.Register("alice", a)
	r.Register("bob", b)

	r.Close()

	if !a.closed || !b.closed {
		t.Error("Close must terminate every tracked connection")
	}
	if r.Len() != 0 {
		t.Error("registry should be empty after Close")
	}
}

func TestConnectionLifecycleTransitions(t *testing.T) {
	c := newFakeConn("c1", "alice")

	if !c.MarkJoined() {
		t.Fatal("Connecting -> Joined should succeed")
	}
	if c.MarkJoined() {
		t.Error("joining twice must fail")
	}
	if !c.MarkLeft() {
		t.Fatal("Joined -> Left should succeed")
	}
	if c.MarkLeft() {
		t.Error("Left is terminal; second leave must fail")
	}
}
