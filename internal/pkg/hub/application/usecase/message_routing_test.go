package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
)

func TestSendMessageDeliversToAllReceiverSessions(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeMessageRepo()
	send := NewSendMessageUseCase(repo, registry, zap.NewNop())

	// B online with two tabs.
	b1 := newFakeConn("b1", "bob")
	b2 := newFakeConn("b2", "bob")
	registry.Register("bob", b1)
	registry.Register("bob", b2)

	msg, err := send.Execute(context.Background(), "alice", SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "hello",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(b1.framesOfType(domain.PushMessage)) != 1 {
		t.Error("first receiver session did not get the message")
	}
	if len(b2.framesOfType(domain.PushMessage)) != 1 {
		t.Error("second receiver session did not get the message")
	}
	if msg.Status != domain.StatusDelivered {
		t.Errorf("status %q, want delivered", msg.Status)
	}
	if repo.status(msg.ID) != domain.StatusDelivered {
		t.Errorf("store status %q, want delivered", repo.status(msg.ID))
	}
}

func TestSendMessageToOfflineReceiverStaysSent(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeMessageRepo()
	send := NewSendMessageUseCase(repo, registry, zap.NewNop())

	msg, err := send.Execute(context.Background(), "dave", SendMessageInput{
		SenderID: "dave", ReceiverID: "carol", Content: "are you there?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Status != domain.StatusSent {
		t.Errorf("status %q, want sent", msg.Status)
	}
	if repo.status(msg.ID) != domain.StatusSent {
		t.Errorf("store status %q, want sent", repo.status(msg.ID))
	}

	// Carol joining later gets no automatic replay; the store is her read path.
	c1 := newFakeConn("c1", "carol")
	registry.Register("carol", c1)
	if len(c1.frames()) != 0 {
		t.Error("no replay expected when the receiver comes online")
	}
}

func TestSendMessageRejectsSenderMismatch(t *testing.T) {
	registry := realtime.NewRegistry()
	send := NewSendMessageUseCase(newFakeMessageRepo(), registry, zap.NewNop())

	_, err := send.Execute(context.Background(), "alice", SendMessageInput{
		SenderID: "mallory", ReceiverID: "bob", Content: "spoofed",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestReadReceiptReachesEverySenderSession(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeMessageRepo()
	send := NewSendMessageUseCase(repo, registry, zap.NewNop())
	update := NewUpdateMessageStatusUseCase(repo, registry, zap.NewNop())

	// A online with two tabs, B with one.
	a1 := newFakeConn("a1", "alice")
	a2 := newFakeConn("a2", "alice")
	b1 := newFakeConn("b1", "bob")
	registry.Register("alice", a1)
	registry.Register("alice", a2)
	registry.Register("bob", b1)

	msg, err := send.Execute(context.Background(), "alice", SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "ping",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(b1.framesOfType(domain.PushMessage)) != 1 {
		t.Fatal("bob did not receive the message")
	}

	if err := update.Execute(context.Background(), "bob", msg.ID, true); err != nil {
		t.Fatal(err)
	}

	for name, conn := range map[string]*fakeConn{"a1": a1, "a2": a2} {
		frames := conn.framesOfType(domain.PushMessageStatus)
		if len(frames) != 1 {
			t.Errorf("%s saw %d status events, want 1", name, len(frames))
			continue
		}
		if frames[0]["status"] != string(domain.StatusRead) {
			t.Errorf("%s saw status %v, want read", name, frames[0]["status"])
		}
	}
	if repo.status(msg.ID) != domain.StatusRead {
		t.Errorf("store status %q, want read", repo.status(msg.ID))
	}
}

func TestUpdateMessageStatusIsIdempotent(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeMessageRepo()
	send := NewSendMessageUseCase(repo, registry, zap.NewNop())
	update := NewUpdateMessageStatusUseCase(repo, registry, zap.NewNop())

	a1 := newFakeConn("a1", "alice")
	b1 := newFakeConn("b1", "bob")
	registry.Register("alice", a1)
	registry.Register("bob", b1)

	msg, err := send.Execute(context.Background(), "alice", SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "ping",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := update.Execute(context.Background(), "bob", msg.ID, true); err != nil {
		t.Fatal(err)
	}
	if err := update.Execute(context.Background(), "bob", msg.ID, true); err != nil {
		t.Fatal(err)
	}

	if got := len(a1.framesOfType(domain.PushMessageStatus)); got != 1 {
		t.Errorf("duplicate read update double-fired: %d status events, want 1", got)
	}
	if repo.status(msg.ID) != domain.StatusRead {
		t.Errorf("store status %q, want read", repo.status(msg.ID))
	}
}

func TestMessageStatusNeverRegresses(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeMessageRepo()
	send := NewSendMessageUseCase(repo, registry, zap.NewNop())
	update := NewUpdateMessageStatusUseCase(repo, registry, zap.NewNop())

	b1 := newFakeConn("b1", "bob")
	registry.Register("bob", b1)

	msg, err := send.Execute(context.Background(), "alice", SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "ping",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := update.Execute(context.Background(), "bob", msg.ID, true); err != nil {
		t.Fatal(err)
	}
	// A late delivered update after read is silently ignored.
	if err := update.Execute(context.Background(), "bob", msg.ID, false); err != nil {
		t.Fatal(err)
	}
	if repo.status(msg.ID) != domain.StatusRead {
		t.Errorf("store status %q, want read after attempted regression", repo.status(msg.ID))
	}
}

func TestUpdateMessageStatusValidatesCaller(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeMessageRepo()
	send := NewSendMessageUseCase(repo, registry, zap.NewNop())
	update := NewUpdateMessageStatusUseCase(repo, registry, zap.NewNop())

	msg, err := send.Execute(context.Background(), "alice", SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "ping",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := update.Execute(context.Background(), "mallory", msg.ID, true); !errors.Is(err, domain.ErrNotReceiver) {
		t.Errorf("got %v, want ErrNotReceiver", err)
	}
	if err := update.Execute(context.Background(), "bob", "no-such-id", true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
