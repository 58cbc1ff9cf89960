package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-huddle/internal/pkg/hub/application/usecase"
	"go-huddle/internal/pkg/hub/domain"
)

// ListNotificationsController handles the inbox listing endpoint only (one
// controller per endpoint).
type ListNotificationsController struct {
	uc *usecase.ListNotificationsUseCase
}

func NewListNotificationsController(uc *usecase.ListNotificationsUseCase) *ListNotificationsController {
	return &ListNotificationsController{uc: uc}
}

func (h *ListNotificationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetString(CtxUserID)

		// Defaults
		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}
		unreadOnly := c.Query("unread") == "true"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.uc.Execute(ctx, callerID, usecase.ListNotificationsInput{
			UnreadOnly: unreadOnly,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			} else if errors.Is(err, domain.ErrUnauthorized) {
				status = http.StatusUnauthorized
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]domain.NotificationPayload, 0, len(res.Notifications))
		for _, n := range res.Notifications {
			out = append(out, domain.ToNotificationPayload(n))
		}

		c.JSON(http.StatusOK, gin.H{
			"notifications": out,
			"unread":        res.Unread,
			"limit":         limit,
			"offset":        offset,
			"count":         len(out),
		})
	}
}
