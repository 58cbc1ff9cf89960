package repository

import (
	"context"

	"go-huddle/internal/pkg/hub/domain"
)

// NotificationRepository is the hub's contract with the durable notification
// store. Producers elsewhere in the platform create the rows; the hub
// forwards them and mirrors read/delete state.
type NotificationRepository interface {
	// Save persists a new notification and returns the store-generated id.
	Save(ctx context.Context, n domain.Notification) (string, error)

	// GetByID returns domain.ErrNotFound when the id is absent.
	GetByID(ctx context.Context, id string) (*domain.Notification, error)

	// MarkRead flips the read flag. Reports false without error when the
	// notification was already read, so repeated calls stay idempotent.
	MarkRead(ctx context.Context, id string) (changed bool, err error)

	// MarkAllRead marks every unread notification of the user and returns how
	// many rows changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// Delete removes the notification; domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// ListByRecipient returns the user's notifications, newest first.
	ListByRecipient(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)

	// CountUnread returns the number of unread notifications for the user.
	CountUnread(ctx context.Context, userID string) (int64, error)
}
