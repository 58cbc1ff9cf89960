package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	queueport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/pkg/hub/application/task"
)

// PublishNotificationController handles the publish-notification endpoint
// only (one controller per endpoint). Delivery happens asynchronously in the
// queue worker so producers never wait on fan-out.
type PublishNotificationController struct {
	Q queueport.Client
}

func NewPublishNotificationController(client queueport.Client) *PublishNotificationController {
	return &PublishNotificationController{Q: client}
}

// publishNotificationRequest is the DTO for the HTTP request body
type publishNotificationRequest struct {
	RecipientID string  `json:"recipient_id" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Body        *string `json:"body"`
	Link        *string `json:"link"`
}

// Handle returns a gin handler that enqueues a background delivery task.
func (h *PublishNotificationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req publishNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		payload := task.DeliverNotificationTaskPayload{
			RecipientID: req.RecipientID,
			Type:        req.Type,
			Title:       req.Title,
			Body:        req.Body,
			Link:        req.Link,
		}
		b, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		opts := queueport.EnqueueOption{Queue: "notify", MaxRetry: 10}
		id, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.DeliverNotificationTaskType, Payload: b}, opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue notification"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":       "queued",
			"task_id":      id,
			"recipient_id": req.RecipientID,
		})
	}
}
