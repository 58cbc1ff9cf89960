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

// MarkAllNotificationsReadUseCase marks every unread notification of the
// caller and mirrors the sweep to all of their live sessions.
type MarkAllNotificationsReadUseCase struct {
	Notifications repository.NotificationRepository
	Registry      *realtime.Registry
	Log           *zap.Logger
}

func NewMarkAllNotificationsReadUseCase(notifications repository.NotificationRepository, registry *realtime.Registry, log *zap.Logger) *MarkAllNotificationsReadUseCase {
	return &MarkAllNotificationsReadUseCase{Notifications: notifications, Registry: registry, Log: log}
}

func (uc *MarkAllNotificationsReadUseCase) Execute(ctx context.Context, callerID string) (int64, error) {
	if callerID == "" {
		return 0, domain.ErrUnauthorized
	}

	count, err := uc.Notifications.MarkAllRead(ctx, callerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if count == 0 {
		return 0, nil
	}

	if conns := uc.Registry.ConnectionsOf(callerID); len(conns) > 0 {
		if payload, err := json.Marshal(domain.NewNotificationsAllReadPush(count)); err == nil {
			pushAll(conns, payload)
		}
	}
	return count, nil
}
