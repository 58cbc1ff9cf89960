package usecase

import (
	"context"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// LeaveUseCase removes a session from the presence registry. The transport
// layer invokes it exactly once per connection lifetime, on explicit leave
// and on abnormal disconnect alike; a second invocation is a harmless no-op
// because Left is terminal.
type LeaveUseCase struct {
	Registry *realtime.Registry
	presence presenceBroadcaster
	Log      *zap.Logger
}

func NewLeaveUseCase(registry *realtime.Registry, contacts repository.ContactRepository, log *zap.Logger) *LeaveUseCase {
	return &LeaveUseCase{
		Registry: registry,
		presence: presenceBroadcaster{registry: registry, contacts: contacts, log: log},
		Log:      log,
	}
}

// Execute leaves the session. Sessions that never joined (or left already)
// are ignored.
func (uc *LeaveUseCase) Execute(ctx context.Context, conn realtime.Conn) error {
	if !conn.MarkLeft() {
		return nil
	}

	wentOffline := uc.Registry.Unregister(conn.UserID(), conn.ID())
	uc.Log.Debug("session left",
		zap.String("user_id", conn.UserID()),
		zap.String("conn_id", conn.ID()),
		zap.Bool("went_offline", wentOffline))

	if wentOffline {
		uc.presence.broadcast(ctx, conn.UserID(), false, false)
	}
	return nil
}
