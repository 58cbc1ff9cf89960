package usecase

import (
	"context"
	"fmt"

	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// ListNotificationsInput carries pagination and filtering for the inbox view.
type ListNotificationsInput struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// ListNotificationsResult is a page of the caller's inbox plus the total
// unread count, which clients use for the badge regardless of the page shown.
type ListNotificationsResult struct {
	Notifications []domain.Notification
	Unread        int64
}

// ListNotificationsUseCase reads a page of the caller's notification inbox.
type ListNotificationsUseCase struct {
	Notifications repository.NotificationRepository
}

func NewListNotificationsUseCase(notifications repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{Notifications: notifications}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, callerID string, in ListNotificationsInput) (*ListNotificationsResult, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthorized
	}

	notes, err := uc.Notifications.ListByRecipient(ctx, callerID, in.UnreadOnly, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	unread, err := uc.Notifications.CountUnread(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &ListNotificationsResult{Notifications: notes, Unread: unread}, nil
}
