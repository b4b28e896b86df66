package posts

import "context"

// CreatePostRequest carries the author-owned content fields for a new post
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	ImgURL   string   `json:"imgUrl"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author"`
}

// UpdatePostRequest carries the content fields an author may change
type UpdatePostRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	ImgURL   string   `json:"imgUrl"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Service defines the business logic interface for post content.
// Engagement counters on posts are owned by the likes/views services; the
// update path here never touches them.
type Service interface {
	// Create publishes a new post with zeroed engagement counters
	Create(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error)

	// Get retrieves a single post by ID
	Get(ctx context.Context, id string) (*Post, error)

	// Update replaces the content fields of an existing post.
	// Only the author may update; counters are preserved.
	Update(ctx context.Context, callerID, id string, req UpdatePostRequest) (*Post, error)

	// Delete removes a post. Only the author may delete.
	// Cascading cleanup of the like ledger is out of scope here.
	Delete(ctx context.Context, callerID, id string) error
}
