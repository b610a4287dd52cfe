package services

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the chat services. Controllers and socket
// handlers map these to transport responses; none of them is returned
// after a partial write.
var (
	// ErrNotAuthorized means the caller is authenticated but not a
	// participant of the target conversation.
	ErrNotAuthorized = errors.New("requester is not a conversation participant")

	// ErrNotFound means the id does not resolve to an active conversation.
	ErrNotFound = errors.New("conversation not found")

	// ErrConversationClosed means the conversation is closed or blocked
	// and no longer accepts new messages.
	ErrConversationClosed = errors.New("conversation no longer accepts messages")
)

// ValidationError reports malformed input: empty content, a missing
// participant or listing id, an unsupported status transition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failure from the persistence layer. Callers are
// expected to retry idempotent operations themselves; the services do
// not retry automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
