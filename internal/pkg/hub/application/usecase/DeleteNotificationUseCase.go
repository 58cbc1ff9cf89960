package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// DeleteNotificationUseCase removes a notification from the store and tells
// all of the recipient's live sessions to drop it.
type DeleteNotificationUseCase struct {
	Notifications repository.NotificationRepository
	Registry      *realtime.Registry
	Log           *zap.Logger
}

func NewDeleteNotificationUseCase(notifications repository.NotificationRepository, registry *realtime.Registry, log *zap.Logger) *DeleteNotificationUseCase {
	return &DeleteNotificationUseCase{Notifications: notifications, Registry: registry, Log: log}
}

func (uc *DeleteNotificationUseCase) Execute(ctx context.Context, callerID, notificationID string) error {
	if callerID == "" {
		return domain.ErrUnauthorized
	}

	n, err := uc.Notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != callerID {
		return domain.ErrNotRecipient
	}

	if err := uc.Notifications.Delete(ctx, notificationID); err != nil {
		return err
	}

	if conns := uc.Registry.ConnectionsOf(callerID); len(conns) > 0 {
		if payload, err := json.Marshal(domain.NewNotificationDeletedPush(notificationID)); err == nil {
			pushAll(conns, payload)
		}
	}
	return nil
}
