package users

import "context"

// Service defines the business logic interface for user records
type Service interface {
	// EnsureUser creates the user record on first sign-in with zero
	// counters, or refreshes the display name on subsequent sign-ins.
	// Idempotent: never resets counters for an existing user.
	EnsureUser(ctx context.Context, id, displayName string) (*User, error)

	// GetProfile retrieves a user plus denormalized counters.
	// Counters are read straight off the user document, never computed by
	// scanning the edge sets.
	GetProfile(ctx context.Context, id string) (*User, error)
}
