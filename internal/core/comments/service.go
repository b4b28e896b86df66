// Package comments maintains the per-post comment thread: an append-only
// sub-collection of reader notes, listed oldest first so threads read in
// conversation order.
package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/monitoring"
	"github.com/irfan106/its-your-story/internal/notify"
)

const (
	// maxContentGraphemes bounds comment content; graphemes rather than bytes
	// so multi-byte scripts and emoji count as what the reader sees
	maxContentGraphemes = 10000

	defaultPageSize = 20
	maxPageSize     = 100
)

type commentService struct {
	store     docstore.Store
	publisher notify.Publisher
	logger    *slog.Logger
}

// NewService creates a new comment service
func NewService(store docstore.Store, publisher notify.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &commentService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *commentService) AddComment(ctx context.Context, callerID, authorName, postID, content string) (*Comment, error) {
	callerID = strings.TrimSpace(callerID)
	postID = strings.TrimSpace(postID)
	content = strings.TrimSpace(content)

	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	if content == "" {
		return nil, ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > maxContentGraphemes {
		return nil, ErrContentTooLong
	}

	if _, err := s.store.Get(ctx, posts.Collection, postID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}

	comment := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    callerID,
		Author:    strings.TrimSpace(authorName),
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	if err := s.store.Set(ctx, commentsCollection(postID), comment.ID, map[string]any{
		FieldUserID:    comment.UserID,
		FieldAuthor:    comment.Author,
		FieldContent:   comment.Content,
		FieldTimestamp: comment.Timestamp,
	}); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.logger.Info("comment added",
		"post", postID,
		"comment", comment.ID,
		"caller", callerID)

	s.publishComment(ctx, callerID, postID)
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, req ListCommentsRequest) (*ListCommentsResponse, error) {
	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		return nil, ErrPostNotFound
	}

	if _, err := s.store.Get(ctx, posts.Collection, postID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	cursor, err := docstore.DecodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	page, err := s.store.Query(ctx, commentsCollection(postID), docstore.Query{
		OrderBy:   FieldTimestamp,
		Direction: docstore.Ascending,
		Cursor:    cursor,
		Limit:     pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	items := make([]*Comment, 0, len(page.Documents))
	for i := range page.Documents {
		items = append(items, FromDocument(postID, &page.Documents[i]))
	}

	return &ListCommentsResponse{
		Items:      items,
		NextCursor: page.NextCursor,
	}, nil
}

// publishComment pushes the post's new comment count to live subscribers.
// Failures are logged and dropped; the comment is already stored.
func (s *commentService) publishComment(ctx context.Context, callerID, postID string) {
	var count int64
	if n, err := s.store.Count(ctx, commentsCollection(postID), nil); err == nil {
		count = n
	}

	err := s.publisher.Publish(ctx, notify.PostChannel(postID), notify.Event{
		Type:   notify.EventComment,
		Actor:  callerID,
		Entity: postID,
		Count:  count,
		At:     time.Now().UTC(),
	})
	if err != nil {
		monitoring.NotifyPublishes.WithLabelValues("error").Inc()
		s.logger.Warn("failed to publish comment event",
			"error", err,
			"post", postID)
		return
	}
	monitoring.NotifyPublishes.WithLabelValues("ok").Inc()
}
