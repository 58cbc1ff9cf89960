package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/observability"
	"go-huddle/internal/pkg/hub/application/usecase"
	"go-huddle/internal/pkg/hub/domain"
)

// DeliverNotificationTaskType is the queue task name for delivering a
// notification produced elsewhere in the platform.
const DeliverNotificationTaskType = "hub:deliver_notification"

// DeliverNotificationTaskPayload is the JSON payload transported via the
// queue. Kept decoupled from domain types to avoid tight coupling with
// JSON tags.
type DeliverNotificationTaskPayload struct {
	RecipientID string  `json:"recipientId"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Body        *string `json:"body"`
	Link        *string `json:"link"`
}

// RegisterDeliverNotificationTask binds the task handler to the provided
// server. Validation failures are terminal; only persistence failures are
// worth retrying.
func RegisterDeliverNotificationTask(srv qport.Server, deliver *usecase.DeliverNotificationUseCase, metrics *observability.Metrics) {
	srv.Register(DeliverNotificationTaskType, func(ctx context.Context, t qport.Task) error {
		var p DeliverNotificationTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			metrics.RecordQueueTask(DeliverNotificationTaskType, "error")
			return err
		}

		n := domain.Notification{
			RecipientID: p.RecipientID,
			Type:        domain.NotificationType(p.Type),
			Title:       p.Title,
			Link:        p.Link,
		}
		if p.Body != nil {
			n.Body = *p.Body
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := deliver.Execute(ctx, n)
		if errors.Is(err, domain.ErrUnknownNotificationType) {
			// producer bug, retrying cannot fix it
			metrics.RecordQueueTask(DeliverNotificationTaskType, "error")
			return nil
		}
		if err != nil {
			metrics.RecordQueueTask(DeliverNotificationTaskType, "error")
			return err
		}
		metrics.RecordQueueTask(DeliverNotificationTaskType, "success")
		return nil
	})
}
