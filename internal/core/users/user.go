package users

import (
	"time"

	"github.com/irfan106/its-your-story/internal/docstore"
)

// Collection is the document-store collection holding user records.
const Collection = "users"

// Field names on user documents
const (
	FieldDisplayName = "displayName"
	FieldFollowers   = "followers"
	FieldFollowing   = "following"
	FieldCreatedAt   = "createdAt"
)

// User is a platform identity plus its denormalized engagement counters.
// Identity comes from the auth provider; this subsystem owns only the
// followers/following counters, which move exclusively inside follow-service
// batches. Users are created on first sign-in and never deleted here.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Followers   int64     `json:"followers"`
	Following   int64     `json:"following"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromDocument hydrates a User from its stored document.
func FromDocument(doc *docstore.Document) *User {
	return &User{
		ID:          doc.ID,
		DisplayName: docstore.StringField(doc.Fields, FieldDisplayName),
		Followers:   docstore.Int64Field(doc.Fields, FieldFollowers),
		Following:   docstore.Int64Field(doc.Fields, FieldFollowing),
		CreatedAt:   docstore.TimeField(doc.Fields, FieldCreatedAt),
	}
}
