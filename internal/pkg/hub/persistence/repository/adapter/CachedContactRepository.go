package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/cache/port"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

const contactCacheTTL = 5 * time.Minute

// CachedContactRepository is a read-through cache decorator over a
// ContactRepository. Presence broadcasts resolve contact lists on every
// online/offline transition, so the hot path goes through Redis and only
// misses hit the social graph tables. Cache failures degrade to the inner
// repository rather than failing the lookup.
type CachedContactRepository struct {
	inner repository.ContactRepository
	cache port.Cache
	log   *zap.Logger
}

func NewCachedContactRepository(inner repository.ContactRepository, cache port.Cache, log *zap.Logger) *CachedContactRepository {
	return &CachedContactRepository{inner: inner, cache: cache, log: log}
}

var _ repository.ContactRepository = (*CachedContactRepository)(nil)

func (r *CachedContactRepository) ContactsOf(ctx context.Context, userID string) ([]string, error) {
	key := "hub:contacts:" + userID

	if cached, err := r.cache.Get(ctx, key); err == nil {
		var contacts []string
		if err := json.Unmarshal([]byte(cached), &contacts); err == nil {
			return contacts, nil
		}
		// Corrupt entry; drop it and fall through to the source.
		_, _ = r.cache.Del(ctx, key)
	} else if !errors.Is(err, port.ErrMiss) {
		r.log.Warn("contact cache read failed", zap.String("user_id", userID), zap.Error(err))
	}

	contacts, err := r.inner.ContactsOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(contacts); err == nil {
		if err := r.cache.Set(ctx, key, string(encoded), contactCacheTTL); err != nil {
			r.log.Warn("contact cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return contacts, nil
}
