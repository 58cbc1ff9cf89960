package repository

import (
	"context"

	"go-huddle/internal/pkg/hub/domain"
)

// MessageRepository is the hub's contract with the durable message store.
// The store is the authority on message state; the hub only accelerates
// delivery to live sessions.
type MessageRepository interface {
	// Save persists a new message and returns the store-generated id.
	Save(ctx context.Context, m domain.Message) (string, error)

	// GetByID returns domain.ErrNotFound when the id is absent.
	GetByID(ctx context.Context, id string) (*domain.Message, error)

	// UpdateStatus advances the delivery status, enforcing the monotonic
	// sent -> delivered -> read ordering. It returns the resulting status and
	// whether the row actually changed; an equal or backward target is a
	// silent no-op (changed=false), never an error. Absent ids return
	// domain.ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) (domain.MessageStatus, bool, error)

	// ListConversation returns the newest messages exchanged between two
	// users, most recent first.
	ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]domain.Message, error)
}
