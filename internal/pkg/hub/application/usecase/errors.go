package usecase

import "errors"

// ErrPersistence indicates an infrastructure/store failure inside a use case.
var ErrPersistence = errors.New("hub use case persistence error")

// ErrAlreadyJoined rejects a join on a session that joined before, or that
// already left. The lifecycle is Connecting -> Joined -> Left with no way back.
var ErrAlreadyJoined = errors.New("hub: session already joined")
