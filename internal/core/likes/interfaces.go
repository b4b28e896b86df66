package likes

import "context"

// LikeState is the caller-visible like state of one post after a toggle
type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// Service defines the business logic interface for the like ledger
type Service interface {
	// ToggleLike flips the caller's like on a post and returns the new
	// state. The ledger record and the likeCount counter move in one atomic
	// batch; the counter never goes negative. A concurrent toggle on the
	// same record is retried once from a fresh read before ErrConflict
	// surfaces.
	ToggleLike(ctx context.Context, callerID, postID string) (*LikeState, error)

	// IsLiked reports whether the caller currently likes the post.
	// Pure read, used when hydrating post pages.
	IsLiked(ctx context.Context, callerID, postID string) (bool, error)
}
