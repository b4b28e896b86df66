// Package memory provides an in-process docstore.Store used by unit tests and
// dev mode. It implements the same version preconditions and batch semantics
// as the postgres adapter, guarded by a single mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/irfan106/its-your-story/internal/docstore"
)

type document struct {
	fields  map[string]any
	version int64
}

// Store is a mutex-guarded map store keyed by collection then document ID.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]*document
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]*document),
	}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &docstore.Document{
		Collection: collection,
		ID:         id,
		Fields:     copyFields(doc.fields),
		Version:    doc.version,
	}, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteSet,
		Collection: collection,
		ID:         id,
		Fields:     fields,
	}})
}

func (s *Store) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteMerge,
		Collection: collection,
		ID:         id,
		Fields:     fields,
	}})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteDelete,
		Collection: collection,
		ID:         id,
	}})
}

// BatchCommit verifies every precondition under the lock, then applies every
// write. Nothing is applied when any precondition fails.
func (s *Store) BatchCommit(ctx context.Context, writes []docstore.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if err := s.checkPrecondition(w); err != nil {
			return err
		}
	}

	for _, w := range writes {
		s.apply(w)
	}
	return nil
}

func (s *Store) checkPrecondition(w docstore.Write) error {
	pre := w.Precondition
	if pre == nil {
		return nil
	}

	doc, exists := s.collections[w.Collection][w.ID]

	if pre.Exists != nil && *pre.Exists != exists {
		return fmt.Errorf("%w: %s/%s", docstore.ErrConflict, w.Collection, w.ID)
	}
	if pre.Version > 0 {
		if !exists || doc.version != pre.Version {
			return fmt.Errorf("%w: %s/%s", docstore.ErrConflict, w.Collection, w.ID)
		}
	}
	return nil
}

func (s *Store) apply(w docstore.Write) {
	coll := s.collections[w.Collection]
	if coll == nil {
		coll = make(map[string]*document)
		s.collections[w.Collection] = coll
	}

	switch w.Kind {
	case docstore.WriteSet:
		version := int64(1)
		if existing, ok := coll[w.ID]; ok {
			version = existing.version + 1
		}
		coll[w.ID] = &document{fields: copyFields(w.Fields), version: version}

	case docstore.WriteMerge:
		existing, ok := coll[w.ID]
		if !ok {
			existing = &document{fields: make(map[string]any)}
			coll[w.ID] = existing
		}
		for key, value := range w.Fields {
			if result, isInc := docstore.ApplyIncrement(asInt64(existing.fields[key]), value); isInc {
				existing.fields[key] = result
			} else {
				existing.fields[key] = value
			}
		}
		existing.version++

	case docstore.WriteDelete:
		delete(coll, w.ID)
	}
}

func (s *Store) Query(ctx context.Context, collection string, q docstore.Query) (*docstore.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Offset > 0 && q.Cursor != nil {
		return nil, fmt.Errorf("%w: offset and cursor are mutually exclusive", docstore.ErrInvalidCursor)
	}
	if q.Cursor != nil && q.Cursor.Numeric != q.OrderNumeric {
		return nil, fmt.Errorf("%w: cursor does not match sort field", docstore.ErrInvalidCursor)
	}

	s.mu.Lock()
	docs := s.matchLocked(collection, q.Filters)
	s.mu.Unlock()

	sortDocs(docs, q.OrderBy, q.Direction)

	// Advance past the cursor position: everything up to and including the
	// (sortKey, id) pair already yielded.
	if q.Cursor != nil {
		idx := sort.Search(len(docs), func(i int) bool {
			return cursorBefore(q.Cursor, docs[i], q.OrderBy, q.Direction)
		})
		docs = docs[idx:]
	} else if q.Offset > 0 {
		if q.Offset >= len(docs) {
			docs = nil
		} else {
			docs = docs[q.Offset:]
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = len(docs)
	}

	// Limit+1 pattern: fetch one extra row to detect whether a next page exists.
	hasMore := len(docs) > limit
	if hasMore {
		docs = docs[:limit]
	}

	page := &docstore.Page{Documents: docs}
	if hasMore && len(docs) > 0 {
		last := docs[len(docs)-1]
		page.NextCursor = encodeDocCursor(last, q.OrderBy)
	}
	return page, nil
}

func (s *Store) Count(ctx context.Context, collection string, filters []docstore.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matchLocked(collection, filters))), nil
}

func (s *Store) matchLocked(collection string, filters []docstore.Filter) []docstore.Document {
	var out []docstore.Document
	for id, doc := range s.collections[collection] {
		if !matches(doc.fields, filters) {
			continue
		}
		out = append(out, docstore.Document{
			Collection: collection,
			ID:         id,
			Fields:     copyFields(doc.fields),
			Version:    doc.version,
		})
	}
	return out
}

func matches(fields map[string]any, filters []docstore.Filter) bool {
	for _, f := range filters {
		value, ok := fields[f.Field]
		if !ok {
			return false
		}
		if f.Prefix {
			str, strOK := value.(string)
			want, wantOK := f.Value.(string)
			if !strOK || !wantOK || !strings.HasPrefix(strings.ToLower(str), strings.ToLower(want)) {
				return false
			}
			continue
		}
		if !equalValue(value, f.Value) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if an, ok := numeric(a); ok {
		bn, bok := numeric(b)
		return bok && an == bn
	}
	return a == b
}

func sortDocs(docs []docstore.Document, orderBy string, dir docstore.Direction) {
	desc := dir == docstore.Descending
	sort.Slice(docs, func(i, j int) bool {
		c := compareField(docs[i].Fields[orderBy], docs[j].Fields[orderBy])
		if c == 0 {
			// ID tiebreak keeps the compound sort key unique
			if desc {
				return docs[i].ID > docs[j].ID
			}
			return docs[i].ID < docs[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// cursorBefore reports whether doc sorts strictly after the cursor position.
func cursorBefore(cur *docstore.Cursor, doc docstore.Document, orderBy string, dir docstore.Direction) bool {
	var c int
	if cur.Numeric {
		c = compareField(cur.SortNum, doc.Fields[orderBy])
	} else {
		c = compareField(cur.SortTime, doc.Fields[orderBy])
	}
	if c == 0 {
		if dir == docstore.Descending {
			return doc.ID < cur.ID
		}
		return doc.ID > cur.ID
	}
	if dir == docstore.Descending {
		return c > 0
	}
	return c < 0
}

func compareField(a, b any) int {
	if at, ok := a.(time.Time); ok {
		bt, _ := b.(time.Time)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		default:
			return 0
		}
	}
	if an, ok := numeric(a); ok {
		bn, _ := numeric(b)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}

func encodeDocCursor(doc docstore.Document, orderBy string) string {
	switch v := doc.Fields[orderBy].(type) {
	case time.Time:
		return docstore.EncodeTimeCursor(v, doc.ID)
	default:
		return docstore.EncodeNumCursor(asInt64(v), doc.ID)
	}
}

func numeric(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asInt64(v any) int64 {
	n, _ := numeric(v)
	return n
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
