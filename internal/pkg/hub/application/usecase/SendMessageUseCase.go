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

// SendMessageInput carries the data needed to route a new direct message.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Content    string
}

// SendMessageUseCase persists an outbound message and delivers it to the
// receiver's live sessions. Persistence is the source of truth: the message
// is written with status "sent" first, and only advanced to "delivered" when
// at least one live session accepted the push. An offline receiver keeps the
// message at "sent" and finds it later through the ordinary read path; the
// hub holds no retry queue.
type SendMessageUseCase struct {
	Messages repository.MessageRepository
	Registry *realtime.Registry
	Log      *zap.Logger
}

func NewSendMessageUseCase(messages repository.MessageRepository, registry *realtime.Registry, log *zap.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Messages: messages, Registry: registry, Log: log}
}

// Execute validates, persists, and routes the message. authedUserID is the
// verified identity of the calling connection; a mismatched sender is
// rejected as unauthorized.
func (uc *SendMessageUseCase) Execute(ctx context.Context, authedUserID string, in SendMessageInput) (*domain.Message, error) {
	if authedUserID == "" || in.SenderID != authedUserID {
		return nil, domain.ErrUnauthorized
	}

	msg, err := domain.NewMessage(domain.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	})
	if err != nil {
		return nil, err
	}

	id, err := uc.Messages.Save(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	conns := uc.Registry.ConnectionsOf(msg.ReceiverID)
	if len(conns) == 0 {
		uc.Log.Debug("receiver unreachable, message stays sent",
			zap.String("message_id", id), zap.String("receiver_id", msg.ReceiverID))
		return msg, nil
	}

	delivered := 0
	if payload, err := json.Marshal(domain.NewMessagePush(*msg)); err == nil {
		delivered = pushAll(conns, payload)
	}
	if delivered == 0 {
		return msg, nil
	}

	status, changed, err := uc.Messages.UpdateStatus(ctx, id, domain.StatusDelivered)
	if err != nil {
		// The message is persisted and pushed; a failed status write is not
		// worth failing the whole send over.
		uc.Log.Warn("failed to mark message delivered", zap.String("message_id", id), zap.Error(err))
		return msg, nil
	}
	if changed {
		msg.Status = status
	}
	return msg, nil
}
