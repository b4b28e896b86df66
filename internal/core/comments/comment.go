package comments

import (
	"time"

	"github.com/irfan106/its-your-story/internal/docstore"
)

// Field names on comment documents
const (
	FieldUserID    = "userId"
	FieldAuthor    = "author"
	FieldContent   = "content"
	FieldTimestamp = "timestamp"
)

// commentsCollection holds the comments of one post, keyed by comment ID.
func commentsCollection(postID string) string {
	return "posts/" + postID + "/comments"
}

// Comment is one reader note on a post. Comments are append-only: the
// platform has no edit or delete surface for them.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// FromDocument hydrates a Comment from its stored document.
func FromDocument(postID string, doc *docstore.Document) *Comment {
	return &Comment{
		ID:        doc.ID,
		PostID:    postID,
		UserID:    docstore.StringField(doc.Fields, FieldUserID),
		Author:    docstore.StringField(doc.Fields, FieldAuthor),
		Content:   docstore.StringField(doc.Fields, FieldContent),
		Timestamp: docstore.TimeField(doc.Fields, FieldTimestamp),
	}
}
