package follows

import "errors"

var (
	// ErrUnauthenticated indicates no verified caller identity was supplied
	ErrUnauthenticated = errors.New("authentication required")

	// ErrSelfFollow indicates a caller tried to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrUserNotFound indicates the follow target doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrConflict indicates a concurrent toggle on the same edge was detected
	// and the single internal retry still collided
	ErrConflict = errors.New("conflicting follow update, please retry")
)
