package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/identity"
	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/observability"
	"go-huddle/internal/pkg/hub/application/usecase"
	"go-huddle/internal/pkg/hub/presentation/controller"
)

// Deps bundles everything the hub's HTTP surface needs. The caller owns
// construction; this layer only binds handlers to routes.
type Deps struct {
	Verifier identity.Verifier
	Queue    qport.Client
	Metrics  *observability.Metrics
	Log      *zap.Logger

	Socket            controller.SocketUseCases
	ListNotifications *usecase.ListNotificationsUseCase
	MarkRead          *usecase.MarkNotificationReadUseCase
	MarkAllRead       *usecase.MarkAllNotificationsReadUseCase
	Delete            *usecase.DeleteNotificationUseCase
	GetConversation   *usecase.GetConversationUseCase
}

// RegisterRoutes registers hub endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	socketCtl := controller.NewHubSocketController(d.Verifier, d.Socket, d.Metrics, d.Log)
	publishCtl := controller.NewPublishNotificationController(d.Queue)
	markReadCtl := controller.NewMarkNotificationReadController(d.MarkRead)
	markAllCtl := controller.NewMarkAllNotificationsReadController(d.MarkAllRead)
	deleteCtl := controller.NewDeleteNotificationController(d.Delete)
	listCtl := controller.NewListNotificationsController(d.ListNotifications)
	messagesCtl := controller.NewGetMessagesController(d.GetConversation)

	// GET /api/v1/hub/ws -> websocket endpoint for realtime hub traffic
	// (authenticates via token query param inside the controller)
	g.GET("/hub/ws", socketCtl.Handle())

	// POST /api/v1/notifications -> enqueue a notification for delivery
	g.POST("/notifications", publishCtl.Handle())

	authed := g.Group("", controller.RequireAuth(d.Verifier))

	// GET /api/v1/notifications -> list the caller's inbox
	authed.GET("/notifications", listCtl.Handle())

	// POST /api/v1/notifications/:notificationId/read -> mark one read
	authed.POST("/notifications/:notificationId/read", markReadCtl.Handle())

	// POST /api/v1/notifications/read-all -> mark the whole inbox read
	authed.POST("/notifications/read-all", markAllCtl.Handle())

	// DELETE /api/v1/notifications/:notificationId -> delete one
	authed.DELETE("/notifications/:notificationId", deleteCtl.Handle())

	// GET /api/v1/messages/:peerId -> conversation history with one peer
	authed.GET("/messages/:peerId", messagesCtl.Handle())
}
