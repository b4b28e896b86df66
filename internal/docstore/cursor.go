package docstore

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cursor format: base64(kind:sortKey|docID) where kind is "t" for RFC3339Nano
// timestamps and "n" for integers. Uses simple delimiters; cursors are
// position markers, not capabilities, so they are validated strictly but not
// signed.

// maxCursorSize bounds incoming cursors to prevent abuse via massive base64 strings
const maxCursorSize = 512

// EncodeTimeCursor builds the continuation token for a timestamp-ordered listing.
func EncodeTimeCursor(sortKey time.Time, id string) string {
	payload := "t:" + sortKey.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// EncodeNumCursor builds the continuation token for an integer-ordered listing.
func EncodeNumCursor(sortKey int64, id string) string {
	payload := "n:" + strconv.FormatInt(sortKey, 10) + "|" + id
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// DecodeCursor parses and validates an opaque cursor token.
// An empty token means "start from the beginning" and returns (nil, nil).
// Malformed cursors return ErrInvalidCursor rather than silently restarting
// the listing, so callers get clear feedback.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	if len(token) > maxCursorSize {
		return nil, fmt.Errorf("%w: cursor exceeds maximum length", ErrInvalidCursor)
	}

	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64", ErrInvalidCursor)
	}

	payload, id, ok := strings.Cut(string(decoded), "|")
	if !ok || payload == "" || id == "" {
		return nil, fmt.Errorf("%w: malformed cursor format", ErrInvalidCursor)
	}

	kind, value, ok := strings.Cut(payload, ":")
	if !ok {
		return nil, fmt.Errorf("%w: malformed cursor format", ErrInvalidCursor)
	}

	switch kind {
	case "t":
		sortKey, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timestamp", ErrInvalidCursor)
		}
		return &Cursor{SortTime: sortKey, ID: id}, nil
	case "n":
		sortKey, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number", ErrInvalidCursor)
		}
		return &Cursor{SortNum: sortKey, Numeric: true, ID: id}, nil
	default:
		return nil, fmt.Errorf("%w: unknown sort key kind", ErrInvalidCursor)
	}
}
