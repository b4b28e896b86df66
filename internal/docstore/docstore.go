// Package docstore defines the document-store contract the engagement core is
// written against: per-document atomic read-modify-write with optimistic
// version preconditions, all-or-nothing batch commits, and ordered filtered
// queries with offset or cursor pagination. Two adapters implement it:
// docstore/postgres for production and docstore/memory for tests and dev mode.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the requested document doesn't exist
	ErrNotFound = errors.New("document not found")

	// ErrConflict indicates a write precondition failed because the document
	// changed since it was last read by the writer
	ErrConflict = errors.New("document version conflict")

	// ErrUnavailable indicates a transient store failure; safe to retry
	ErrUnavailable = errors.New("document store unavailable")

	// ErrInvalidCursor indicates a malformed or tampered pagination cursor
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// Document is a stored record: a flat field map plus the version observed at
// read time. Version 0 means "not read from the store" and carries no
// precondition when echoed back in a write.
type Document struct {
	Collection string
	ID         string
	Fields     map[string]any
	Version    int64
}

// incrementValue is a sentinel field value interpreted by Merge/BatchCommit as
// a numeric delta rather than a replacement.
type incrementValue struct {
	Delta int64
	Floor bool
}

// Increment returns a field value that adds delta to the stored numeric field
// inside the same atomic write. Absent fields are treated as 0.
func Increment(delta int64) any {
	return incrementValue{Delta: delta}
}

// IncrementFloored is Increment clamped at zero, for counters that must never
// go negative regardless of operation ordering.
func IncrementFloored(delta int64) any {
	return incrementValue{Delta: delta, Floor: true}
}

// ApplyIncrement reports whether v is an increment sentinel and, if so, the
// result of applying it to current. Adapters use it when applying field maps.
func ApplyIncrement(current int64, v any) (int64, bool) {
	inc, ok := v.(incrementValue)
	if !ok {
		return 0, false
	}
	result := current + inc.Delta
	if inc.Floor && result < 0 {
		result = 0
	}
	return result, true
}

// WriteKind discriminates the operations a batch can carry.
type WriteKind int

const (
	// WriteSet creates or replaces the document's fields
	WriteSet WriteKind = iota
	// WriteMerge updates only the listed fields, applying Increment deltas
	WriteMerge
	// WriteDelete removes the document
	WriteDelete
)

// Write is one operation inside a batch commit.
type Write struct {
	Kind       WriteKind
	Collection string
	ID         string
	Fields     map[string]any

	// Precondition, when set, must hold at commit time or the whole batch
	// fails with ErrConflict.
	Precondition *Precondition
}

// Precondition expresses the optimistic-concurrency check for one document.
type Precondition struct {
	// Exists, when non-nil, requires the document to exist (true) or be
	// absent (false) at commit time.
	Exists *bool

	// Version, when > 0, requires the document's current version to equal it.
	Version int64
}

// MustExist returns a precondition requiring the document to be present.
func MustExist() *Precondition {
	e := true
	return &Precondition{Exists: &e}
}

// MustNotExist returns a precondition requiring the document to be absent.
func MustNotExist() *Precondition {
	e := false
	return &Precondition{Exists: &e}
}

// MustMatchVersion returns a precondition pinning the document to the version
// observed at read time.
func MustMatchVersion(version int64) *Precondition {
	return &Precondition{Version: version}
}

// Direction orders a query ascending or descending on its sort field.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Filter restricts a query to documents whose field matches the value.
// Prefix filters match string fields by prefix instead of equality.
type Filter struct {
	Field  string
	Value  any
	Prefix bool
}

// Query describes an ordered, filtered range read over one collection.
// Results are ordered by OrderBy then document ID as tiebreak, so the compound
// sort key is unique and cursors are stable. Offset and Cursor are mutually
// exclusive; adapters return ErrInvalidCursor if both are set.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Direction Direction

	// OrderNumeric tells the adapter the sort field holds integers rather
	// than timestamps, so it casts and encodes cursors accordingly.
	OrderNumeric bool

	Offset int
	Cursor *Cursor
	Limit  int
}

// Cursor is the decoded form of a pagination token: the sort-key value and
// document ID of the last item already yielded. Numeric selects which sort
// key field is populated.
type Cursor struct {
	SortTime time.Time
	SortNum  int64
	Numeric  bool
	ID       string
}

// Page is one query result: the documents plus the encoded continuation
// cursor, empty when the listing is exhausted.
type Page struct {
	Documents  []Document
	NextCursor string
}

// Store is the document-store port. All methods honor ctx cancellation;
// BatchCommit is all-or-nothing across every write it carries.
type Store interface {
	// Get reads one document. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Set creates or replaces one document.
	Set(ctx context.Context, collection, id string, fields map[string]any) error

	// Merge updates only the given fields of one document, creating it if
	// absent. Increment values are applied as numeric deltas atomically.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes one document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// BatchCommit applies every write atomically. If any precondition fails
	// the batch is rejected as a unit with ErrConflict and nothing is applied.
	BatchCommit(ctx context.Context, writes []Write) error

	// Query returns an ordered page of documents matching q.
	Query(ctx context.Context, collection string, q Query) (*Page, error)

	// Count returns the number of documents matching the filters.
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)
}
