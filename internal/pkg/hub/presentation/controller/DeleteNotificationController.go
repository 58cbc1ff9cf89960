package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-huddle/internal/pkg/hub/application/usecase"
	"go-huddle/internal/pkg/hub/domain"
)

// DeleteNotificationController handles the delete endpoint only (one
// controller per endpoint).
type DeleteNotificationController struct {
	uc *usecase.DeleteNotificationUseCase
}

func NewDeleteNotificationController(uc *usecase.DeleteNotificationUseCase) *DeleteNotificationController {
	return &DeleteNotificationController{uc: uc}
}

func (h *DeleteNotificationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		notificationID := c.Param("notificationId")
		if notificationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "notificationId is required"})
			return
		}
		callerID := c.GetString(CtxUserID)

		err := h.uc.Execute(c.Request.Context(), callerID, notificationID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"status": "deleted", "notification_id": notificationID})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		case errors.Is(err, domain.ErrNotRecipient):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the recipient of this notification"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		}
	}
}
