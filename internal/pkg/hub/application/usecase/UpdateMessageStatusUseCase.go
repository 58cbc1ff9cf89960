package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// UpdateMessageStatusUseCase advances a message's delivery status on behalf
// of its receiver and propagates the change to every live session of the
// sender, so an open tab on another device shows the read receipt too.
//
// Idempotent by construction: the store only reports a change on a genuine
// forward transition, and the sender-side push fires only on change, so
// repeated read updates cannot double-fire.
type UpdateMessageStatusUseCase struct {
	Messages repository.MessageRepository
	Registry *realtime.Registry
	Log      *zap.Logger
}

func NewUpdateMessageStatusUseCase(messages repository.MessageRepository, registry *realtime.Registry, log *zap.Logger) *UpdateMessageStatusUseCase {
	return &UpdateMessageStatusUseCase{Messages: messages, Registry: registry, Log: log}
}

// Execute marks the message read (or merely delivered when isRead is false).
// Only the message's receiver may call this; domain.ErrNotFound surfaces an
// unknown id.
func (uc *UpdateMessageStatusUseCase) Execute(ctx context.Context, callerID, messageID string, isRead bool) error {
	if callerID == "" {
		return domain.ErrUnauthorized
	}

	msg, err := uc.Messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.ReceiverID != callerID {
		return domain.ErrNotReceiver
	}

	target := domain.StatusDelivered
	if isRead {
		target = domain.StatusRead
	}

	status, changed, err := uc.Messages.UpdateStatus(ctx, messageID, target)
	if err != nil {
		return err
	}
	if !changed {
		// Already at or past the target; nothing to mirror.
		return nil
	}

	if conns := uc.Registry.ConnectionsOf(msg.SenderID); len(conns) > 0 {
		if payload, err := json.Marshal(domain.NewMessageStatusPush(messageID, status)); err == nil {
			pushAll(conns, payload)
		}
	} else {
		uc.Log.Debug("sender unreachable, status change not mirrored",
			zap.String("message_id", messageID), zap.String("sender_id", msg.SenderID))
	}
	return nil
}
