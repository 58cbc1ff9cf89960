package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-huddle/internal/infrastructure/identity"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/observability"
	"go-huddle/internal/pkg/hub/application/usecase"
	"go-huddle/internal/pkg/hub/domain"
)

// HubSocketController handles the websocket endpoint carrying all realtime
// hub traffic: presence lifecycle, typing, messages, and status receipts.
type HubSocketController struct {
	verifier identity.Verifier
	metrics  *observability.Metrics
	log      *zap.Logger

	joinUC        *usecase.JoinUseCase
	leaveUC       *usecase.LeaveUseCase
	focusUC       *usecase.UpdateFocusUseCase
	onlineUsersUC *usecase.GetOnlineUsersUseCase
	typingUC      *usecase.SendTypingUseCase
	sendMessageUC *usecase.SendMessageUseCase
	msgStatusUC   *usecase.UpdateMessageStatusUseCase

	inflightTimeout time.Duration
}

// SocketUseCases bundles the application services the socket endpoint drives.
type SocketUseCases struct {
	Join          *usecase.JoinUseCase
	Leave         *usecase.LeaveUseCase
	UpdateFocus   *usecase.UpdateFocusUseCase
	OnlineUsers   *usecase.GetOnlineUsersUseCase
	Typing        *usecase.SendTypingUseCase
	SendMessage   *usecase.SendMessageUseCase
	MessageStatus *usecase.UpdateMessageStatusUseCase
}

func NewHubSocketController(verifier identity.Verifier, ucs SocketUseCases, metrics *observability.Metrics, log *zap.Logger) *HubSocketController {
	return &HubSocketController{
		verifier:        verifier,
		metrics:         metrics,
		log:             log,
		joinUC:          ucs.Join,
		leaveUC:         ucs.Leave,
		focusUC:         ucs.UpdateFocus,
		onlineUsersUC:   ucs.OnlineUsers,
		typingUC:        ucs.Typing,
		sendMessageUC:   ucs.SendMessage,
		msgStatusUC:     ucs.MessageStatus,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when the web
		// frontend's origin list is settled.
		return true
	},
}

type inboundFrame struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
	Typing     *bool  `json:"typing,omitempty"`
	Focused    *bool  `json:"focused,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
	IsRead     *bool  `json:"is_read,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
}

type onlineUsersFrame struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

const defaultReadTimeout = 60 * time.Second

// Handle authenticates the request, upgrades it to a websocket, and processes
// frames until the client disconnects. The token travels in the "token" query
// parameter because browsers cannot set headers on websocket handshakes.
func (ctl *HubSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		userID, err := ctl.verifier.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		ctl.metrics.ConnectionOpened()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
			_ = ctl.leaveUC.Execute(ctx, conn)
			cancel()
			conn.Close(websocket.CloseNormalClosure, "session closed")
			ctl.metrics.ConnectionClosed(time.Since(conn.Established()).Seconds())
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected", UserID: userID}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}
			ctl.metrics.FrameReceived(frame.Type)

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn)
			case "leave":
				ctl.handleLeave(c, conn)
			case "set_focus":
				ctl.handleSetFocus(c, conn, frame)
			case "get_online_users":
				ctl.handleGetOnlineUsers(c, conn, userID)
			case "typing":
				ctl.handleTyping(c, conn, userID, frame)
			case "message":
				ctl.handleMessage(c, conn, userID, frame)
			case "message_status":
				ctl.handleMessageStatus(c, conn, userID, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *HubSocketController) handleJoin(c *gin.Context, conn *realtime.Connection) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.joinUC.Execute(ctx, conn); err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	if payload, err := json.Marshal(ackFrame{Type: "joined", UserID: conn.UserID()}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *HubSocketController) handleLeave(c *gin.Context, conn *realtime.Connection) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.leaveUC.Execute(ctx, conn); err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	if payload, err := json.Marshal(ackFrame{Type: "left", UserID: conn.UserID()}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *HubSocketController) handleSetFocus(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.Focused == nil {
		ctl.replyError(conn, "bad_request", "focused is required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()
	ctl.focusUC.Execute(ctx, conn, *frame.Focused)
}

func (ctl *HubSocketController) handleGetOnlineUsers(c *gin.Context, conn *realtime.Connection, userID string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	users, err := ctl.onlineUsersUC.Execute(ctx, userID)
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	if users == nil {
		users = []string{}
	}
	if payload, err := json.Marshal(onlineUsersFrame{Type: "online_users", Users: users}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *HubSocketController) handleTyping(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.ReceiverID == "" {
		ctl.replyError(conn, "bad_request", "receiver_id is required")
		return
	}
	typing := true
	if frame.Typing != nil {
		typing = *frame.Typing
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.typingUC.Execute(ctx, domain.TypingSignal{
		SenderID:   userID,
		ReceiverID: frame.ReceiverID,
		Typing:     typing,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *HubSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, userID, usecase.SendMessageInput{
		SenderID:   userID,
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	// Echo the persisted message back so the sender's tab can render it with
	// the server-assigned id and status.
	if payload, err := json.Marshal(domain.NewMessagePush(*msg)); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *HubSocketController) handleMessageStatus(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.MessageID == "" {
		ctl.replyError(conn, "bad_request", "message_id is required")
		return
	}
	isRead := false
	if frame.IsRead != nil {
		isRead = *frame.IsRead
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.msgStatusUC.Execute(ctx, userID, frame.MessageID, isRead); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *HubSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.metrics.RecordError("socket", "persistence")
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, usecase.ErrAlreadyJoined):
		ctl.replyError(conn, "conflict", "session already joined")
	case errors.Is(err, domain.ErrUnauthorized):
		ctl.replyError(conn, "unauthorized", "not allowed for this user")
	case errors.Is(err, domain.ErrNotReceiver), errors.Is(err, domain.ErrNotRecipient):
		ctl.replyError(conn, "forbidden", "not the receiver of this message")
	case errors.Is(err, domain.ErrNotFound):
		ctl.replyError(conn, "not_found", "unknown message")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *HubSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
