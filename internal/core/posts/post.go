package posts

import (
	"time"

	"github.com/irfan106/its-your-story/internal/docstore"
)

// Collection is the document-store collection holding post records.
const Collection = "posts"

// Field names on post documents
const (
	FieldAuthorID  = "authorId"
	FieldAuthor    = "author"
	FieldTitle     = "title"
	FieldBody      = "body"
	FieldImgURL    = "imgUrl"
	FieldCategory  = "category"
	FieldTags      = "tags"
	FieldTimestamp = "timestamp"
	FieldViews     = "views"
	FieldLikeCount = "likeCount"
)

// Post is a published story. Content fields belong to the author; the views
// and likeCount counters belong to the engagement services and move only
// through their atomic batches.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImgURL    string    `json:"imgUrl,omitempty"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Views     int64     `json:"views"`
	LikeCount int64     `json:"likeCount"`
}

// FromDocument hydrates a Post from its stored document.
func FromDocument(doc *docstore.Document) *Post {
	return &Post{
		ID:        doc.ID,
		AuthorID:  docstore.StringField(doc.Fields, FieldAuthorID),
		Author:    docstore.StringField(doc.Fields, FieldAuthor),
		Title:     docstore.StringField(doc.Fields, FieldTitle),
		Body:      docstore.StringField(doc.Fields, FieldBody),
		ImgURL:    docstore.StringField(doc.Fields, FieldImgURL),
		Category:  docstore.StringField(doc.Fields, FieldCategory),
		Tags:      docstore.StringsField(doc.Fields, FieldTags),
		Timestamp: docstore.TimeField(doc.Fields, FieldTimestamp),
		Views:     docstore.Int64Field(doc.Fields, FieldViews),
		LikeCount: docstore.Int64Field(doc.Fields, FieldLikeCount),
	}
}
