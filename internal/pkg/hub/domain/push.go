package domain

import "time"

// Push frame types delivered to connected clients. Every fan-out in the hub
// sends one of these as a JSON object whose "type" field carries the value
// below.
const (
	PushPresence             = "presence"
	PushTyping               = "typing"
	PushMessage              = "message"
	PushMessageStatus        = "message_status"
	PushNotification         = "notification"
	PushNotificationRead     = "notification_read"
	PushNotificationsAllRead = "notifications_all_read"
	PushNotificationDeleted  = "notification_deleted"
)

// PresencePush tells contacts that a user changed presence. Focused refines
// online into active/idle; it is meaningless when Online is false.
type PresencePush struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id"`
	Online  bool   `json:"online"`
	Focused bool   `json:"focused"`
}

func NewPresencePush(userID string, online, focused bool) PresencePush {
	return PresencePush{Type: PushPresence, UserID: userID, Online: online, Focused: focused}
}

// TypingPush carries an ephemeral typing indicator to the receiver's sessions.
type TypingPush struct {
	Type     string `json:"type"`
	SenderID string `json:"sender_id"`
	Typing   bool   `json:"typing"`
}

func NewTypingPush(senderID string, typing bool) TypingPush {
	return TypingPush{Type: PushTyping, SenderID: senderID, Typing: typing}
}

// MessagePayload is the wire shape of a message inside push frames and HTTP
// responses, kept separate from the db-tagged domain struct.
type MessagePayload struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
}

func ToMessagePayload(m Message) MessagePayload {
	return MessagePayload{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		Status:     string(m.Status),
	}
}

// MessagePush delivers a new message to the receiver's sessions.
type MessagePush struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

func NewMessagePush(m Message) MessagePush {
	return MessagePush{Type: PushMessage, Message: ToMessagePayload(m)}
}

// MessageStatusPush tells the sender's sessions that a message advanced to a
// new delivery state.
type MessageStatusPush struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

func NewMessageStatusPush(messageID string, status MessageStatus) MessageStatusPush {
	return MessageStatusPush{Type: PushMessageStatus, MessageID: messageID, Status: string(status)}
}

// NotificationPayload is the wire shape of a notification.
type NotificationPayload struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	Link        *string   `json:"link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToNotificationPayload(n Notification) NotificationPayload {
	return NotificationPayload{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Kind:        string(n.Type),
		Title:       n.Title,
		Body:        n.Body,
		Link:        n.Link,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

// NotificationPush delivers a fresh notification to the recipient's sessions.
type NotificationPush struct {
	Type         string              `json:"type"`
	Notification NotificationPayload `json:"notification"`
}

func NewNotificationPush(n Notification) NotificationPush {
	return NotificationPush{Type: PushNotification, Notification: ToNotificationPayload(n)}
}

// NotificationReadPush mirrors a single read receipt across the recipient's
// other sessions.
type NotificationReadPush struct {
	Type           string `json:"type"`
	NotificationID string `json:"notification_id"`
}

func NewNotificationReadPush(id string) NotificationReadPush {
	return NotificationReadPush{Type: PushNotificationRead, NotificationID: id}
}

// NotificationsAllReadPush mirrors a mark-all-read across sessions.
type NotificationsAllReadPush struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

func NewNotificationsAllReadPush(count int64) NotificationsAllReadPush {
	return NotificationsAllReadPush{Type: PushNotificationsAllRead, Count: count}
}

// NotificationDeletedPush mirrors a deletion across sessions.
type NotificationDeletedPush struct {
	Type           string `json:"type"`
	NotificationID string `json:"notification_id"`
}

func NewNotificationDeletedPush(id string) NotificationDeletedPush {
	return NotificationDeletedPush{Type: PushNotificationDeleted, NotificationID: id}
}
