package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/hub/domain"
)

func TestDeliverNotificationFansOutToRecipientSessions(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeNotificationRepo()
	deliver := NewDeliverNotificationUseCase(repo, registry, zap.NewNop())

	c1 := newFakeConn("c1", "carol")
	c2 := newFakeConn("c2", "carol")
	registry.Register("carol", c1)
	registry.Register("carol", c2)

	n, err := deliver.Execute(context.Background(), domain.Notification{
		RecipientID: "carol", Type: domain.NotificationFriend, Title: "new friend request",
	})
	if err != nil {
		t.Fatal(err)
	}
	if n.ID == "" {
		t.Fatal("notification not persisted")
	}

	for name, conn := range map[string]*fakeConn{"c1": c1, "c2": c2} {
		if got := len(conn.framesOfType(domain.PushNotification)); got != 1 {
			t.Errorf("%s saw %d notification frames, want 1", name, got)
		}
	}
}

func TestDeliverNotificationToOfflineRecipientIsNoop(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeNotificationRepo()
	deliver := NewDeliverNotificationUseCase(repo, registry, zap.NewNop())

	n, err := deliver.Execute(context.Background(), domain.Notification{
		RecipientID: "carol", Type: domain.NotificationLike, Title: "dave liked your post",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Still retrievable through the store, unread.
	stored, err := repo.GetByID(context.Background(), n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Read {
		t.Error("undelivered notification must stay unread")
	}
}

func TestDeliverNotificationRejectsUnknownType(t *testing.T) {
	registry := realtime.NewRegistry()
	deliver := NewDeliverNotificationUseCase(newFakeNotificationRepo(), registry, zap.NewNop())

	_, err := deliver.Execute(context.Background(), domain.Notification{
		RecipientID: "carol", Type: "poke", Title: "hm",
	})
	if !errors.Is(err, domain.ErrUnknownNotificationType) {
		t.Errorf("got %v, want ErrUnknownNotificationType", err)
	}
}

func TestMarkReadMirrorsAcrossDevices(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeNotificationRepo()
	deliver := NewDeliverNotificationUseCase(repo, registry, zap.NewNop())
	markRead := NewMarkNotificationReadUseCase(repo, registry, zap.NewNop())

	c1 := newFakeConn("c1", "carol")
	c2 := newFakeConn("c2", "carol")
	registry.Register("carol", c1)
	registry.Register("carol", c2)

	n, err := deliver.Execute(context.Background(), domain.Notification{
		RecipientID: "carol", Type: domain.NotificationComment, Title: "new comment",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := markRead.Execute(context.Background(), "carol", n.ID); err != nil {
		t.Fatal(err)
	}
	// Second call: same outcome, no second mirror.
	if err := markRead.Execute(context.Background(), "carol", n.ID); err != nil {
		t.Fatal(err)
	}

	for name, conn := range map[string]*fakeConn{"c1": c1, "c2": c2} {
		if got := len(conn.framesOfType(domain.PushNotificationRead)); got != 1 {
			t.Errorf("%s saw %d read mirrors, want 1", name, got)
		}
	}

	stored, err := repo.GetByID(context.Background(), n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Read {
		t.Error("store should record the notification as read")
	}
}

func TestMarkReadValidatesRecipient(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeNotificationRepo()
	deliver := NewDeliverNotificationUseCase(repo, registry, zap.NewNop())
	markRead := NewMarkNotificationReadUseCase(repo, registry, zap.NewNop())

	n, err := deliver.Execute(context.Background(), domain.Notification{
		RecipientID: "carol", Type: domain.NotificationSystem, Title: "maintenance window",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := markRead.Execute(context.Background(), "mallory", n.ID); !errors.Is(err, domain.ErrNotRecipient) {
		t.Errorf("got %v, want ErrNotRecipient", err)
	}
	if err := markRead.Execute(context.Background(), "carol", "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMarkAllReadMirrorsCount(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeNotificationRepo()
	deliver := NewDeliverNotificationUseCase(repo, registry, zap.NewNop())
	markAll := NewMarkAllNotificationsReadUseCase(repo, registry, zap.NewNop())

	c1 := newFakeConn("c1", "carol")
	registry.Register("carol", c1)

	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		if _, err := deliver.Execute(ctx, domain.Notification{
			RecipientID: "carol", Type: domain.NotificationLike, Title: title,
		}); err != nil {
			t.Fatal(err)
		}
	}

	count, err := markAll.Execute(ctx, "carol")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("marked %d notifications, want 3", count)
	}

	frames := c1.framesOfType(domain.PushNotificationsAllRead)
	if len(frames) != 1 {
		t.Fatalf("saw %d all-read mirrors, want 1", len(frames))
	}

	// Nothing left unread: a second sweep changes nothing and mirrors nothing.
	count, err = markAll.Execute(ctx, "carol")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("second sweep marked %d, want 0", count)
	}
	if got := len(c1.framesOfType(domain.PushNotificationsAllRead)); got != 1 {
		t.Errorf("second sweep mirrored anyway: %d frames", got)
	}
}

func TestDeleteNotificationMirrorsAcrossDevices(t *testing.T) {
	registry := realtime.NewRegistry()
	repo := newFakeNotificationRepo()
	deliver := NewDeliverNotificationUseCase(repo, registry, zap.NewNop())
	del := NewDeleteNotificationUseCase(repo, registry, zap.NewNop())

	c1 := newFakeConn("c1", "carol")
	registry.Register("carol", c1)

	n, err := deliver.Execute(context.Background(), domain.Notification{
		RecipientID: "carol", Type: domain.NotificationMessage, Title: "new message",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := del.Execute(context.Background(), "carol", n.ID); err != nil {
		t.Fatal(err)
	}
	if got := len(c1.framesOfType(domain.PushNotificationDeleted)); got != 1 {
		t.Errorf("saw %d delete mirrors, want 1", got)
	}
	if _, err := repo.GetByID(context.Background(), n.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted notification still readable: %v", err)
	}
}
