package comments

import "errors"

var (
	// ErrUnauthenticated indicates no verified caller identity was supplied
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPostNotFound indicates the post being commented on doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = errors.New("comment content is required")

	// ErrContentTooLong indicates comment content exceeds the grapheme limit
	ErrContentTooLong = errors.New("comment content is too long")
)
