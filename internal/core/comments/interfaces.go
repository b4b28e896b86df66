package comments

import "context"

// ListCommentsRequest asks for the next slice of one post's comments,
// oldest first so threads read top to bottom.
type ListCommentsRequest struct {
	PostID   string `json:"postId"`
	Cursor   string `json:"cursor,omitempty"`
	PageSize int    `json:"pageSize"`
}

// ListCommentsResponse is one forward slice; an empty NextCursor means the
// thread is exhausted
type ListCommentsResponse struct {
	Items      []*Comment `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// Service defines the business logic interface for post comments
type Service interface {
	// AddComment appends a comment to a post's thread.
	// Live subscribers to the post see the new comment count.
	AddComment(ctx context.Context, callerID, authorName, postID, content string) (*Comment, error)

	// ListComments returns the post's comments oldest first with cursor
	// pagination; consecutive calls iterate without duplicates or gaps.
	ListComments(ctx context.Context, req ListCommentsRequest) (*ListCommentsResponse, error)
}
