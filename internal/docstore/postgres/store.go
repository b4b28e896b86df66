// Package postgres implements docstore.Store on a single jsonb documents
// table. Per-document optimistic concurrency uses a version column; batch
// commits run inside one transaction with row locks, so a failed precondition
// rejects the whole batch.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/irfan106/its-your-story/internal/docstore"
)

type pgStore struct {
	db *sql.DB
}

// New creates a postgres-backed document store.
func New(db *sql.DB) docstore.Store {
	return &pgStore{db: db}
}

func (s *pgStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw []byte
	var version int64

	query := `SELECT fields, version FROM documents WHERE collection = $1 AND id = $2`
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&raw, &version)
	if err == sql.ErrNoRows {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, mapStoreError("get document", err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}

	return &docstore.Document{
		Collection: collection,
		ID:         id,
		Fields:     fields,
		Version:    version,
	}, nil
}

func (s *pgStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteSet,
		Collection: collection,
		ID:         id,
		Fields:     fields,
	}})
}

func (s *pgStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteMerge,
		Collection: collection,
		ID:         id,
		Fields:     fields,
	}})
}

func (s *pgStore) Delete(ctx context.Context, collection, id string) error {
	return s.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteDelete,
		Collection: collection,
		ID:         id,
	}})
}

// BatchCommit applies every write in one transaction. Touched rows are locked
// up front in deterministic order to avoid deadlocks between concurrent
// batches, then each precondition is verified before anything is written.
func (s *pgStore) BatchCommit(ctx context.Context, writes []docstore.Write) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapStoreError("begin batch", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, w := range sortedByKey(writes) {
		if err := checkPrecondition(ctx, tx, w); err != nil {
			return err
		}
	}

	for _, w := range writes {
		if err := applyWrite(ctx, tx, w); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return mapStoreError("commit batch", err)
	}
	return nil
}

// sortedByKey returns the writes ordered by (collection, id) for lock
// acquisition. Application order is preserved separately.
func sortedByKey(writes []docstore.Write) []docstore.Write {
	out := make([]docstore.Write, len(writes))
	copy(out, writes)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && writeKey(out[j]) < writeKey(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func writeKey(w docstore.Write) string {
	return w.Collection + "\x00" + w.ID
}

func checkPrecondition(ctx context.Context, tx *sql.Tx, w docstore.Write) error {
	var version int64
	query := `SELECT version FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, w.Collection, w.ID).Scan(&version)

	exists := true
	if err == sql.ErrNoRows {
		exists = false
	} else if err != nil {
		return mapStoreError("lock document", err)
	}

	pre := w.Precondition
	if pre == nil {
		return nil
	}
	if pre.Exists != nil && *pre.Exists != exists {
		return fmt.Errorf("%w: %s/%s", docstore.ErrConflict, w.Collection, w.ID)
	}
	if pre.Version > 0 && (!exists || version != pre.Version) {
		return fmt.Errorf("%w: %s/%s", docstore.ErrConflict, w.Collection, w.ID)
	}
	return nil
}

func applyWrite(ctx context.Context, tx *sql.Tx, w docstore.Write) error {
	switch w.Kind {
	case docstore.WriteSet:
		raw, err := encodeFields(w.Fields)
		if err != nil {
			return err
		}
		query := `
			INSERT INTO documents (collection, id, fields, version, updated_at)
			VALUES ($1, $2, $3, 1, NOW())
			ON CONFLICT (collection, id)
			DO UPDATE SET fields = EXCLUDED.fields, version = documents.version + 1, updated_at = NOW()`
		if _, err := tx.ExecContext(ctx, query, w.Collection, w.ID, raw); err != nil {
			return mapStoreError("set document", err)
		}
		return nil

	case docstore.WriteMerge:
		// Row is already locked by checkPrecondition, so read-modify-write
		// here is atomic with respect to other batches.
		var raw []byte
		current := make(map[string]any)
		query := `SELECT fields FROM documents WHERE collection = $1 AND id = $2`
		err := tx.QueryRowContext(ctx, query, w.Collection, w.ID).Scan(&raw)
		if err != nil && err != sql.ErrNoRows {
			return mapStoreError("read document for merge", err)
		}
		if err == nil {
			current, err = decodeFields(raw)
			if err != nil {
				return fmt.Errorf("failed to decode document %s/%s: %w", w.Collection, w.ID, err)
			}
		}

		for key, value := range w.Fields {
			if result, isInc := docstore.ApplyIncrement(docstore.Int64Field(current, key), value); isInc {
				current[key] = result
			} else {
				current[key] = value
			}
		}

		merged, err := encodeFields(current)
		if err != nil {
			return err
		}
		upsert := `
			INSERT INTO documents (collection, id, fields, version, updated_at)
			VALUES ($1, $2, $3, 1, NOW())
			ON CONFLICT (collection, id)
			DO UPDATE SET fields = EXCLUDED.fields, version = documents.version + 1, updated_at = NOW()`
		if _, err := tx.ExecContext(ctx, upsert, w.Collection, w.ID, merged); err != nil {
			return mapStoreError("merge document", err)
		}
		return nil

	case docstore.WriteDelete:
		query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
		if _, err := tx.ExecContext(ctx, query, w.Collection, w.ID); err != nil {
			return mapStoreError("delete document", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown write kind %d", w.Kind)
	}
}

func (s *pgStore) Query(ctx context.Context, collection string, q docstore.Query) (*docstore.Page, error) {
	if q.Offset > 0 && q.Cursor != nil {
		return nil, fmt.Errorf("%w: offset and cursor are mutually exclusive", docstore.ErrInvalidCursor)
	}

	args := []any{collection}
	conditions := []string{"collection = $1"}
	paramIndex := 2

	for _, f := range q.Filters {
		cond, newIndex, err := filterCondition(f, paramIndex, &args)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
		paramIndex = newIndex
	}

	sortExpr := sortExpression(q.OrderBy, q.OrderNumeric)
	dir := "ASC"
	idDir := "ASC"
	cmp := ">"
	if q.Direction == docstore.Descending {
		dir = "DESC"
		idDir = "DESC"
		cmp = "<"
	}

	if q.Cursor != nil {
		// Compound row comparison continues exactly after (sortKey, id).
		conditions = append(conditions, fmt.Sprintf("(%s, id) %s ($%d, $%d)", sortExpr, cmp, paramIndex, paramIndex+1))
		if q.Cursor.Numeric != q.OrderNumeric {
			return nil, fmt.Errorf("%w: cursor does not match sort field", docstore.ErrInvalidCursor)
		}
		if q.OrderNumeric {
			args = append(args, q.Cursor.SortNum, q.Cursor.ID)
		} else {
			args = append(args, q.Cursor.SortTime, q.Cursor.ID)
		}
		paramIndex += 2
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	// Limit+1 pattern checks for a next page without a second query
	query := fmt.Sprintf(`
		SELECT id, fields, version
		FROM documents
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), sortExpr, dir, idDir, paramIndex, paramIndex+1)
	args = append(args, limit+1, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError("query documents", err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var id string
		var raw []byte
		var version int64
		if err := rows.Scan(&id, &raw, &version); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
		}
		docs = append(docs, docstore.Document{
			Collection: collection,
			ID:         id,
			Fields:     fields,
			Version:    version,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("iterate documents", err)
	}

	page := &docstore.Page{}
	hasMore := len(docs) > limit
	if hasMore {
		docs = docs[:limit]
	}
	page.Documents = docs

	if hasMore && len(docs) > 0 {
		last := docs[len(docs)-1]
		if q.OrderNumeric {
			page.NextCursor = docstore.EncodeNumCursor(docstore.Int64Field(last.Fields, q.OrderBy), last.ID)
		} else {
			page.NextCursor = docstore.EncodeTimeCursor(docstore.TimeField(last.Fields, q.OrderBy), last.ID)
		}
	}
	return page, nil
}

func (s *pgStore) Count(ctx context.Context, collection string, filters []docstore.Filter) (int64, error) {
	args := []any{collection}
	conditions := []string{"collection = $1"}
	paramIndex := 2

	for _, f := range filters {
		cond, newIndex, err := filterCondition(f, paramIndex, &args)
		if err != nil {
			return 0, err
		}
		conditions = append(conditions, cond)
		paramIndex = newIndex
	}

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM documents WHERE %s`, strings.Join(conditions, " AND "))
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapStoreError("count documents", err)
	}
	return count, nil
}

// filterCondition translates one docstore filter into SQL over the jsonb
// fields column. Field names are interpolated via quoted jsonb path text, so
// they must come from service code, never raw caller input.
func filterCondition(f docstore.Filter, paramIndex int, args *[]any) (string, int, error) {
	if strings.ContainsAny(f.Field, "'\"\\") {
		return "", paramIndex, fmt.Errorf("invalid filter field %q", f.Field)
	}

	if f.Prefix {
		value, ok := f.Value.(string)
		if !ok {
			return "", paramIndex, fmt.Errorf("prefix filter on %q requires a string value", f.Field)
		}
		*args = append(*args, strings.ToLower(value))
		cond := fmt.Sprintf("LOWER(fields->>'%s') LIKE $%d || '%%'", f.Field, paramIndex)
		return cond, paramIndex + 1, nil
	}

	switch v := f.Value.(type) {
	case string:
		*args = append(*args, v)
		return fmt.Sprintf("fields->>'%s' = $%d", f.Field, paramIndex), paramIndex + 1, nil
	case int64, int, int32:
		*args = append(*args, v)
		return fmt.Sprintf("(fields->>'%s')::bigint = $%d", f.Field, paramIndex), paramIndex + 1, nil
	case time.Time:
		*args = append(*args, v)
		return fmt.Sprintf("(fields->>'%s')::timestamptz = $%d", f.Field, paramIndex), paramIndex + 1, nil
	default:
		return "", paramIndex, fmt.Errorf("unsupported filter value type %T for %q", f.Value, f.Field)
	}
}

func sortExpression(orderBy string, numeric bool) string {
	if numeric {
		return fmt.Sprintf("COALESCE((fields->>'%s')::bigint, 0)", orderBy)
	}
	return fmt.Sprintf("(fields->>'%s')::timestamptz", orderBy)
}

func encodeFields(fields map[string]any) ([]byte, error) {
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			// Canonical timestamp encoding keeps timestamptz casts valid
			normalized[k] = t.UTC().Format(time.RFC3339Nano)
			continue
		}
		normalized[k] = v
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}
	return raw, nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// mapStoreError wraps driver failures, folding connection-level problems into
// ErrUnavailable so services can tell transient outages from data errors.
func mapStoreError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 - connection exceptions, class 57 - operator intervention
		if strings.HasPrefix(string(pqErr.Code), "08") || strings.HasPrefix(string(pqErr.Code), "57") {
			return fmt.Errorf("%w: %s: %v", docstore.ErrUnavailable, op, err)
		}
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", docstore.ErrUnavailable, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
