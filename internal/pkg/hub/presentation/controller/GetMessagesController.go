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

// GetMessagesController handles fetching conversation history with one peer
// (one controller per endpoint).
type GetMessagesController struct {
	uc *usecase.GetConversationUseCase
}

func NewGetMessagesController(uc *usecase.GetConversationUseCase) *GetMessagesController {
	return &GetMessagesController{uc: uc}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		peerID := c.Param("peerId")
		if peerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "peerId is required"})
			return
		}
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

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.uc.Execute(ctx, callerID, usecase.GetConversationInput{
			PeerID: peerID,
			Limit:  limit,
			Offset: offset,
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

		out := make([]domain.MessagePayload, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, domain.ToMessagePayload(m))
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}
