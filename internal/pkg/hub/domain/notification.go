package domain

import (
	"errors"
	"strings"
	"time"
)

// NotificationType is the closed set of notification categories the platform
// produces. The hub forwards them; it never originates one itself.
type NotificationType string

const (
	NotificationMessage NotificationType = "message"
	NotificationFriend  NotificationType = "friend"
	NotificationSystem  NotificationType = "system"
	NotificationComment NotificationType = "comment"
	NotificationLike    NotificationType = "like"
)

// Valid reports whether t is one of the known categories.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationMessage, NotificationFriend, NotificationSystem,
		NotificationComment, NotificationLike:
		return true
	}
	return false
}

// Notification is an externally-produced event addressed to one user. The
// durable store owns the record and its read flag; the hub mirrors state
// changes to the recipient's live sessions.
type Notification struct {
	ID          string           `db:"id"`
	RecipientID string           `db:"recipient_id"`
	Type        NotificationType `db:"type"`
	Title       string           `db:"title"`
	Body        string           `db:"body"`
	Link        *string          `db:"link"` // optional deep link
	Read        bool             `db:"read"`
	CreatedAt   time.Time        `db:"created_at"`
}

// NewNotification validates and normalizes a notification before persistence.
func NewNotification(n Notification) (*Notification, error) {
	if n.RecipientID == "" {
		return nil, errors.New("recipient_id is required")
	}
	if !n.Type.Valid() {
		return nil, ErrUnknownNotificationType
	}

	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return nil, errors.New("notification title is required")
	}
	n.Body = strings.TrimSpace(n.Body)

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	n.Read = false
	return &n, nil
}
