package posts

import "errors"

var (
	// ErrPostNotFound is returned when a post lookup finds no matching record
	ErrPostNotFound = errors.New("post not found")

	// ErrNotAuthorized is returned when a caller edits or deletes a post they don't own
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUnauthenticated indicates no verified caller identity was supplied
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidPost is returned when required content fields are missing
	ErrInvalidPost = errors.New("title and body are required")
)
