package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// DeliverNotificationUseCase persists an externally-produced notification and
// pushes it to every live session of the recipient. An offline recipient is
// a silent no-op: the row stays queryable through the store, and the hub
// takes no responsibility for replaying it.
type DeliverNotificationUseCase struct {
	Notifications repository.NotificationRepository
	Registry      *realtime.Registry
	Log           *zap.Logger
}

func NewDeliverNotificationUseCase(notifications repository.NotificationRepository, registry *realtime.Registry, log *zap.Logger) *DeliverNotificationUseCase {
	return &DeliverNotificationUseCase{Notifications: notifications, Registry: registry, Log: log}
}

func (uc *DeliverNotificationUseCase) Execute(ctx context.Context, in domain.Notification) (*domain.Notification, error) {
	n, err := domain.NewNotification(in)
	if err != nil {
		return nil, err
	}

	id, err := uc.Notifications.Save(ctx, *n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	n.ID = id

	conns := uc.Registry.ConnectionsOf(n.RecipientID)
	if len(conns) == 0 {
		uc.Log.Debug("recipient unreachable, notification not pushed",
			zap.String("notification_id", id), zap.String("recipient_id", n.RecipientID))
		return n, nil
	}

	if payload, err := json.Marshal(domain.NewNotificationPush(*n)); err == nil {
		pushAll(conns, payload)
	}
	return n, nil
}
