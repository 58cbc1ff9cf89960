package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// MarkNotificationReadUseCase flips the read flag in the store, then mirrors
// the change to every live session of the same user so a notification read
// on one device dismisses on all others in near-real time.
type MarkNotificationReadUseCase struct {
	Notifications repository.NotificationRepository
	Registry      *realtime.Registry
	Log           *zap.Logger
}

func NewMarkNotificationReadUseCase(notifications repository.NotificationRepository, registry *realtime.Registry, log *zap.Logger) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{Notifications: notifications, Registry: registry, Log: log}
}

func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, callerID, notificationID string) error {
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

	changed, err := uc.Notifications.MarkRead(ctx, notificationID)
	if err != nil {
		return err
	}
	if !changed {
		// Already read; same observable outcome, no second mirror.
		return nil
	}

	if conns := uc.Registry.ConnectionsOf(callerID); len(conns) > 0 {
		if payload, err := json.Marshal(domain.NewNotificationReadPush(notificationID)); err == nil {
			pushAll(conns, payload)
		}
	}
	return nil
}
