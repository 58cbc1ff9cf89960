package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go-huddle/internal/pkg/hub/domain"
)

// fakeConn is an in-memory realtime.Conn capturing pushed frames.
type fakeConn struct {
	id     string
	userID string

	mu      sync.Mutex
	focused bool
	joined  bool
	left    bool
	closed  bool
	sent    [][]byte
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
	if f.joined || f.left {
		return false
	}
	f.joined = true
	return true
}

func (f *fakeConn) MarkLeft() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.joined || f.left {
		return false
	}
	f.left = true
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

// frames decodes every captured push into a generic map.
func (f *fakeConn) frames() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.sent))
	for _, raw := range f.sent {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// framesOfType counts captured pushes with the given "type" field.
func (f *fakeConn) framesOfType(pushType string) []map[string]any {
	var out []map[string]any
	for _, m := range f.frames() {
		if m["type"] == pushType {
			out = append(out, m)
		}
	}
	return out
}

// fakeMessageRepo is an in-memory MessageRepository with the same monotonic
// status semantics as the pg adapter.
type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs map[string]*domain.Message
	seq  int

	saveErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[string]*domain.Message)}
}

func (r *fakeMessageRepo) Save(ctx context.Context, m domain.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.seq++
	id := fmt.Sprintf("msg-%d", r.seq)
	m.ID = id
	r.msgs[id] = &m
	return id, nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) (domain.MessageStatus, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok {
		return "", false, domain.ErrNotFound
	}
	if !m.Status.CanAdvanceTo(status) {
		return m.Status, false, nil
	}
	m.Status = status
	return status, true, nil
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.msgs {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) status(id string) domain.MessageStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.msgs[id]; ok {
		return m.Status
	}
	return ""
}

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	mu    sync.Mutex
	notes map[string]*domain.Notification
	seq   int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notes: make(map[string]*domain.Notification)}
}

func (r *fakeNotificationRepo) Save(ctx context.Context, n domain.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("note-%d", r.seq)
	n.ID = id
	r.notes[id] = &n
	return id, nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if n.Read {
		return false, nil
	}
	n.Read = true
	return true, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, note := range r.notes {
		if note.RecipientID == userID && !note.Read {
			note.Read = true
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notes {
		if n.RecipientID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, note := range r.notes {
		if note.RecipientID == userID && !note.Read {
			n++
		}
	}
	return n, nil
}

// fakeContacts is a static read-only contact list.
type fakeContacts struct {
	contacts map[string][]string
	err      error
}

func (f *fakeContacts) ContactsOf(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts[userID], nil
}
