package usecase

import (
	"context"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// JoinUseCase registers an authenticated session in the presence registry.
// When this is the user's first live session, their contacts that are online
// receive a presence-online event; offline contacts simply miss it.
type JoinUseCase struct {
	Registry *realtime.Registry
	presence presenceBroadcaster
	Log      *zap.Logger
}

func NewJoinUseCase(registry *realtime.Registry, contacts repository.ContactRepository, log *zap.Logger) *JoinUseCase {
	return &JoinUseCase{
		Registry: registry,
		presence: presenceBroadcaster{registry: registry, contacts: contacts, log: log},
		Log:      log,
	}
}

// Execute joins the session. ErrUnauthorized when the connection carries no
// verified identity; ErrAlreadyJoined when the session is past Connecting.
func (uc *JoinUseCase) Execute(ctx context.Context, conn realtime.Conn) error {
	if conn.UserID() == "" {
		return domain.ErrUnauthorized
	}
	if !conn.MarkJoined() {
		return ErrAlreadyJoined
	}

	cameOnline := uc.Registry.Register(conn.UserID(), conn)
	uc.Log.Debug("session joined",
		zap.String("user_id", conn.UserID()),
		zap.String("conn_id", conn.ID()),
		zap.Bool("came_online", cameOnline))

	if cameOnline {
		uc.presence.broadcast(ctx, conn.UserID(), true, conn.Focused())
	}
	return nil
}
