package realtime

import "sync"

// Registry is the single source of truth for which users are reachable right
// now. It maps each user identity to the set of that user's live sessions so
// one account can be online from several tabs or devices at once.
//
// All mutation is serialized behind a global mutex, which is plenty at the
// single-process scale the hub targets; reads return copy-on-read snapshots
// so callers iterate without holding any lock. Presence is authoritative only
// within this process.
type Registry struct {
	mu    sync.RWMutex
	users map[string]map[string]Conn // userID -> connID -> conn
	byID  map[string]Conn            // connID -> conn
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]map[string]Conn),
		byID:  make(map[string]Conn),
	}
}

// Register adds conn to the user's session set. It reports whether the user
// transitioned offline -> online, i.e. this was their first live session.
func (r *Registry) Register(userID string, conn Conn) (cameOnline bool) {
	if userID == "" || conn == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.users[userID]
	if set == nil {
		set = make(map[string]Conn)
		r.users[userID] = set
		cameOnline = true
	}
	set[conn.ID()] = conn
	r.byID[conn.ID()] = conn
	return cameOnline
}

// Unregister removes the connection and reports whether the user transitioned
// online -> offline, i.e. this was their last live session. Unknown
// connections are a no-op.
func (r *Registry) Unregister(userID, connID string) (wentOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.users[userID]
	if set == nil {
		return false
	}
	if _, ok := set[connID]; !ok {
		return false
	}
	delete(set, connID)
	delete(r.byID, connID)
	if len(set) == 0 {
		// Empty sets are removed immediately so "online" stays equivalent to
		// "has at least one session".
		delete(r.users, userID)
		return true
	}
	return false
}

// SetFocus updates the focus flag of a live connection. Unknown connections
// (already closed) are silently ignored so the operation stays idempotent.
func (r *Registry) SetFocus(connID string, focused bool) {
	r.mu.RLock()
	conn := r.byID[connID]
	r.mu.RUnlock()
	if conn != nil {
		conn.SetFocused(focused)
	}
}

// ConnectionsOf returns a snapshot of the user's live sessions. The returned
// slice is owned by the caller; later registry mutations do not affect it.
func (r *Registry) ConnectionsOf(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.users[userID]
	if len(set) == 0 {
		return nil
	}
	conns := make([]Conn, 0, len(set))
	for _, c := range set {
		conns = append(conns, c)
	}
	return conns
}

// OnlineUsers returns a snapshot of user identities with at least one live
// session.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.users))
	for id := range r.users {
		users = append(users, id)
	}
	return users
}

// IsOnline reports whether the user has at least one live session.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// IsFocused reports whether at least one of the user's sessions has focus.
func (r *Registry) IsFocused(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.users[userID] {
		if c.Focused() {
			return true
		}
	}
	return false
}

// Len returns the total number of live connections across all users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Close detaches and terminates every tracked connection. Connections are
// closed outside the lock.
func (r *Registry) Close() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.byID))
	for _, c := range r.byID {
		conns = append(conns, c)
	}
	r.users = make(map[string]map[string]Conn)
	r.byID = make(map[string]Conn)
	r.mu.Unlock()

	for _, c := range conns {
		c.Close(1001, "hub shutdown")
	}
}
