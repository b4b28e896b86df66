package likes

import "errors"

var (
	// ErrUnauthenticated indicates no verified caller identity was supplied
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPostNotFound indicates the post being liked doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrConflict indicates a concurrent toggle on the same like was detected
	// and the single internal retry still collided
	ErrConflict = errors.New("conflicting like update, please retry")
)
