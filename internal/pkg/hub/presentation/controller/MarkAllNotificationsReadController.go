package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-huddle/internal/pkg/hub/application/usecase"
	"go-huddle/internal/pkg/hub/domain"
)

// MarkAllNotificationsReadController handles the read-all sweep endpoint
// only (one controller per endpoint).
type MarkAllNotificationsReadController struct {
	uc *usecase.MarkAllNotificationsReadUseCase
}

func NewMarkAllNotificationsReadController(uc *usecase.MarkAllNotificationsReadUseCase) *MarkAllNotificationsReadController {
	return &MarkAllNotificationsReadController{uc: uc}
}

func (h *MarkAllNotificationsReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetString(CtxUserID)

		count, err := h.uc.Execute(c.Request.Context(), callerID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"status": "read", "count": count})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		}
	}
}
