package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// presenceBroadcaster fans a presence change out to the live sessions of the
// user's contacts. Shared by the join/leave/focus use cases.
//
// The broadcast is best-effort end to end: a contact-list lookup failure is
// logged and the broadcast skipped, offline contacts simply miss the event,
// and per-connection send failures are swallowed. The contact list is read
// through a read-only capability, never owned here.
type presenceBroadcaster struct {
	registry *realtime.Registry
	contacts repository.ContactRepository
	log      *zap.Logger
}

func (b *presenceBroadcaster) broadcast(ctx context.Context, userID string, online, focused bool) {
	contacts, err := b.contacts.ContactsOf(ctx, userID)
	if err != nil {
		b.log.Warn("presence broadcast skipped: contact lookup failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}

	payload, err := json.Marshal(domain.NewPresencePush(userID, online, focused))
	if err != nil {
		return
	}

	for _, contact := range contacts {
		// Snapshot per contact; no registry lock is held while pushing.
		if conns := b.registry.ConnectionsOf(contact); len(conns) > 0 {
			pushAll(conns, payload)
		}
	}
}
