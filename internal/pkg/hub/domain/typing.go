package domain

// TypingSignal is an ephemeral indicator that a user is composing a message
// to another user. It is never persisted and never queued for offline
// delivery; a typing-true signal expires on its own if not renewed.
type TypingSignal struct {
	SenderID   string
	ReceiverID string
	Typing     bool
}
