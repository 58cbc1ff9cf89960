package domain

import (
	"errors"
	"strings"
	"time"
)

// MessageStatus is the delivery state of a direct message. It only ever moves
// forward: sent -> delivered -> read.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// rank orders statuses for the monotonic-progress guard. Unknown statuses
// rank below sent so they can never overwrite a stored value.
func (s MessageStatus) rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	}
	return 0
}

// CanAdvanceTo reports whether moving from s to next is a forward transition.
// Equal or backward transitions are not advances; callers treat them as
// idempotent no-ops rather than errors.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	return next.rank() > s.rank()
}

// Message is one direct message between two users. The durable store owns the
// record; the hub holds it only while routing.
type Message struct {
	ID         string        `db:"id"`
	SenderID   string        `db:"sender_id"`
	ReceiverID string        `db:"receiver_id"`
	Content    string        `db:"content"`
	CreatedAt  time.Time     `db:"created_at"`
	Status     MessageStatus `db:"status"`
}

// NewMessage validates and normalizes a message before persistence.
func NewMessage(m Message) (*Message, error) {
	if m.SenderID == "" || m.ReceiverID == "" {
		return nil, errors.New("sender_id and receiver_id are required")
	}
	if m.SenderID == m.ReceiverID {
		return nil, ErrSelfMessage
	}

	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.Status == "" {
		m.Status = StatusSent
	}
	return &m, nil
}
