package usecase

import (
	"context"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// UpdateFocusUseCase flips the per-connection focus flag and broadcasts an
// active/idle refinement to contacts. Updating a connection that already
// closed fails silently; the session is gone and nobody cares about its
// focus anymore.
type UpdateFocusUseCase struct {
	Registry *realtime.Registry
	presence presenceBroadcaster
}

func NewUpdateFocusUseCase(registry *realtime.Registry, contacts repository.ContactRepository, log *zap.Logger) *UpdateFocusUseCase {
	return &UpdateFocusUseCase{
		Registry: registry,
		presence: presenceBroadcaster{registry: registry, contacts: contacts, log: log},
	}
}

func (uc *UpdateFocusUseCase) Execute(ctx context.Context, conn realtime.Conn, focused bool) {
	uc.Registry.SetFocus(conn.ID(), focused)

	// The user-level flag is derived: focused while any session has focus.
	if uc.Registry.IsOnline(conn.UserID()) {
		uc.presence.broadcast(ctx, conn.UserID(), true, uc.Registry.IsFocused(conn.UserID()))
	}
}
