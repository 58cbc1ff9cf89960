package usecase

import (
	"context"
	"fmt"

	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// GetConversationInput identifies the peer and the page to fetch.
type GetConversationInput struct {
	PeerID string
	Limit  int
	Offset int
}

// GetConversationUseCase reads the message history between the caller and one
// peer. This is the catch-up path for messages that stayed at "sent" while
// the caller was offline.
type GetConversationUseCase struct {
	Messages repository.MessageRepository
}

func NewGetConversationUseCase(messages repository.MessageRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Messages: messages}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, callerID string, in GetConversationInput) ([]domain.Message, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.PeerID == "" {
		return nil, fmt.Errorf("peer id is required")
	}

	msgs, err := uc.Messages.ListConversation(ctx, callerID, in.PeerID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
