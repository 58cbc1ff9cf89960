package repository

import "context"

// ContactRepository is a read-only view of the social graph, used to scope
// presence broadcasts and the online-contacts listing. The hub never owns or
// mutates friendship state.
type ContactRepository interface {
	// ContactsOf returns the ids of the user's confirmed contacts.
	ContactsOf(ctx context.Context, userID string) ([]string, error)
}
