package services

import (
	"errors"
)

// Error taxonomy shared by every service. Callers classify with
// errors.Is; handlers map the classes onto HTTP status codes.
var (
	// ErrValidation marks malformed input. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a caller without rights over the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState marks an operation that is not legal in the
	// entity's current lifecycle state, e.g. booking a gig that already
	// left Open. The caller's optimistic view is stale; it should
	// re-fetch rather than retry.
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicate marks a duplicate where the operation cannot safely
	// collapse to a no-op. Idempotent paths (re-follow, re-express
	// interest) swallow the duplicate instead of returning this.
	ErrDuplicate = errors.New("duplicate")
)
