package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
)

// DefaultTypingTTL bounds how long a typing-true signal stays valid without
// renewal. Clients renew while the user keeps typing; if the sender crashes
// mid-type, the hub clears the indicator itself so it can never stick
// forever. Clearing slightly early is acceptable, sticking is not.
const DefaultTypingTTL = 7 * time.Second

// SendTypingUseCase fans ephemeral typing indicators out to the receiver's
// live sessions. Nothing here touches the durable store: an offline receiver
// means the signal is dropped, never queued, never retried. Keep it that way;
// this path must stay structurally separate from the persisted ones.
type SendTypingUseCase struct {
	Registry *realtime.Registry
	Log      *zap.Logger

	ttl    time.Duration
	mu     sync.Mutex
	timers map[typingKey]*time.Timer
}

type typingKey struct {
	sender   string
	receiver string
}

func NewSendTypingUseCase(registry *realtime.Registry, log *zap.Logger, ttl time.Duration) *SendTypingUseCase {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &SendTypingUseCase{
		Registry: registry,
		Log:      log,
		ttl:      ttl,
		timers:   make(map[typingKey]*time.Timer),
	}
}

func (uc *SendTypingUseCase) Execute(ctx context.Context, sig domain.TypingSignal) error {
	if sig.SenderID == "" {
		return domain.ErrUnauthorized
	}

	key := typingKey{sender: sig.SenderID, receiver: sig.ReceiverID}

	conns := uc.Registry.ConnectionsOf(sig.ReceiverID)
	if len(conns) == 0 {
		// Typing state has no meaning to an offline user.
		uc.cancel(key)
		uc.Log.Debug("typing signal dropped: receiver unreachable",
			zap.String("receiver_id", sig.ReceiverID))
		return nil
	}

	if payload, err := json.Marshal(domain.NewTypingPush(sig.SenderID, sig.Typing)); err == nil {
		pushAll(conns, payload)
	}

	if sig.Typing {
		uc.arm(key)
	} else {
		uc.cancel(key)
	}
	return nil
}

// Stop cancels all pending expiry timers, for shutdown.
func (uc *SendTypingUseCase) Stop() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for k, t := range uc.timers {
		t.Stop()
		delete(uc.timers, k)
	}
}

// arm schedules (or reschedules) the stale-signal cleanup for this pair.
func (uc *SendTypingUseCase) arm(key typingKey) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if t, ok := uc.timers[key]; ok {
		t.Stop()
	}
	uc.timers[key] = time.AfterFunc(uc.ttl, func() {
		uc.expire(key)
	})
}

func (uc *SendTypingUseCase) cancel(key typingKey) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if t, ok := uc.timers[key]; ok {
		t.Stop()
		delete(uc.timers, key)
	}
}

// expire clears a stale typing indicator on the receiver side.
func (uc *SendTypingUseCase) expire(key typingKey) {
	uc.mu.Lock()
	delete(uc.timers, key)
	uc.mu.Unlock()

	conns := uc.Registry.ConnectionsOf(key.receiver)
	if len(conns) == 0 {
		return
	}
	if payload, err := json.Marshal(domain.NewTypingPush(key.sender, false)); err == nil {
		pushAll(conns, payload)
	}
}
