package conversation

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a conversation id has no stored state.
var ErrNotFound = errors.New("conversation not found")

// Store persists conversation state keyed by conversation id.
//
// Stores must support concurrent access across distinct ids. Exclusive
// access within one id is provided by Acquire: callers hold the id's lock
// for the duration of a turn so two turns on the same conversation never
// interleave.
type Store interface {
	// Acquire locks the given conversation id and returns a release
	// function. Turns on different ids proceed in parallel; turns on the
	// same id serialize behind this lock.
	Acquire(id string) (release func())

	// Load returns a deep copy of the state for the given id, or
	// ErrNotFound when the conversation does not exist yet.
	Load(ctx context.Context, id string) (*State, error)

	// Save persists the given state, replacing any previous state for its
	// id. The store keeps its own copy; the caller's state is not retained.
	Save(ctx context.Context, state *State) error

	// Close releases any resources held by the store.
	Close() error
}

// NotFoundError wraps ErrNotFound with the offending conversation id.
func NotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
