package feeds

import (
	"context"

	"github.com/irfan106/its-your-story/internal/core/posts"
)

// Sort fields accepted by the listing endpoints
const (
	SortTimestamp = "timestamp"
	SortViews     = "views"
)

// Sort directions
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

const (
	defaultPageSize = 6
	maxPageSize     = 50
)

// Filter narrows a listing. Zero values mean "no restriction".
type Filter struct {
	Category    string `json:"category,omitempty"`
	AuthorID    string `json:"authorId,omitempty"`
	TitlePrefix string `json:"search,omitempty"`
}

// Sort orders a listing by one field plus document ID as tiebreak
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// ListPostsRequest asks for an absolute page of a filtered, sorted listing
type ListPostsRequest struct {
	Filter   Filter `json:"filter"`
	Sort     Sort   `json:"sort"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// ListPostsResponse is one absolute page plus enough to render page controls
type ListPostsResponse struct {
	Items       []*posts.Post `json:"items"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

// ListByCursorRequest asks for the next slice of a filtered, sorted listing
type ListByCursorRequest struct {
	Filter   Filter `json:"filter"`
	Sort     Sort   `json:"sort"`
	Cursor   string `json:"cursor,omitempty"`
	PageSize int    `json:"pageSize"`
}

// ListByCursorResponse is one forward slice; an empty NextCursor means the
// listing is exhausted
type ListByCursorResponse struct {
	Items      []*posts.Post `json:"items"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

// Service defines the business logic interface for feed listings
type Service interface {
	// ListPosts serves jump-to-page UIs with absolute page numbers.
	// Offset paging over a live-mutating ordered set is not stable: items
	// can shift across a page boundary between two requests. That is the
	// accepted trade-off for absolute page numbers; callers needing
	// monotonic iteration use ListPostsByCursor.
	ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error)

	// ListPostsByCursor guarantees duplicate-free, gap-free forward
	// iteration over a stable snapshot of already-yielded items: the
	// compound sort key (field + ID tiebreak) is unique, so consecutive
	// calls partition the filtered set exactly.
	ListPostsByCursor(ctx context.Context, req ListByCursorRequest) (*ListByCursorResponse, error)

	// Trending returns the top posts by view count
	Trending(ctx context.Context, limit int) ([]*posts.Post, error)

	// Tags returns the distinct tag union across all posts, sorted
	Tags(ctx context.Context) ([]string, error)
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
