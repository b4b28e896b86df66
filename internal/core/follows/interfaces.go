package follows

import "context"

// Service defines the business logic interface for the follow graph
type Service interface {
	// ToggleFollow flips the follow edge from caller to target and returns
	// the new state: true when the caller now follows the target.
	// The mirror edges and both counters move in one atomic batch; a
	// concurrent toggle on the same edge is retried once from a fresh read
	// before ErrConflict surfaces.
	// Not idempotent: callers needing "ensure following" must read first.
	ToggleFollow(ctx context.Context, callerID, targetID string) (bool, error)

	// IsFollowing reports whether caller currently follows target.
	// Pure read, no side effects.
	IsFollowing(ctx context.Context, callerID, targetID string) (bool, error)
}
