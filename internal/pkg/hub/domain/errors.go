package domain

import "errors"

// Hub error taxonomy. A target user with no live connections is deliberately
// NOT an error anywhere in this package: best-effort delivery treats it as a
// normal no-op because the durable store already holds the state.
var (
	// ErrUnauthorized rejects operations on a connection that carries no
	// verified identity, or whose identity does not match the claimed actor.
	ErrUnauthorized = errors.New("hub: connection has no verified identity")

	// ErrNotFound surfaces a message/notification id absent from the store.
	ErrNotFound = errors.New("hub: entity not found")

	// ErrNotReceiver rejects a status update from anyone but the message's
	// receiver.
	ErrNotReceiver = errors.New("hub: caller is not the message receiver")

	// ErrNotRecipient rejects notification mutations from anyone but the
	// notification's recipient.
	ErrNotRecipient = errors.New("hub: caller is not the notification recipient")

	ErrSelfMessage             = errors.New("hub: sender and receiver are the same user")
	ErrEmptyMessage            = errors.New("hub: message content is empty")
	ErrUnknownNotificationType = errors.New("hub: unknown notification type")
)
