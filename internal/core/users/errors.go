package users

import "errors"

var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUserID is returned when a caller passes an empty or blank user ID
	ErrInvalidUserID = errors.New("user ID is required")
)
