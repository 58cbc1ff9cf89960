package usecase

import (
	"context"
	"fmt"
	"sort"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// GetOnlineUsersUseCase returns the registry's online snapshot filtered to
// the requester's contact list. Strangers stay invisible regardless of their
// presence.
type GetOnlineUsersUseCase struct {
	Registry *realtime.Registry
	Contacts repository.ContactRepository
}

func NewGetOnlineUsersUseCase(registry *realtime.Registry, contacts repository.ContactRepository) *GetOnlineUsersUseCase {
	return &GetOnlineUsersUseCase{Registry: registry, Contacts: contacts}
}

func (uc *GetOnlineUsersUseCase) Execute(ctx context.Context, requesterID string) ([]string, error) {
	if requesterID == "" {
		return nil, domain.ErrUnauthorized
	}

	contacts, err := uc.Contacts.ContactsOf(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	contactSet := make(map[string]struct{}, len(contacts))
	for _, id := range contacts {
		contactSet[id] = struct{}{}
	}

	online := make([]string, 0)
	for _, id := range uc.Registry.OnlineUsers() {
		if _, ok := contactSet[id]; ok {
			online = append(online, id)
		}
	}
	sort.Strings(online)
	return online, nil
}
