// Package views records post view events. Views are a lossy engagement
// signal: a blind monotonic increment with no per-user ledger and no
// deduplication. Failures must never reach the page render that triggered
// the event.
package views

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/monitoring"
)

// recordTimeout bounds the store write so a dead store cannot stall callers
const recordTimeout = 2 * time.Second

// Service records view events on posts
type Service interface {
	// RecordView increments the post's view counter, best-effort.
	// Never returns an error and never blocks the caller beyond a short
	// internal timeout; failures are logged once and dropped.
	RecordView(ctx context.Context, postID string)
}

type viewService struct {
	store  docstore.Store
	logger *slog.Logger
}

// NewService creates a new view counter service
func NewService(store docstore.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &viewService{
		store:  store,
		logger: logger,
	}
}

// RecordView is fire-and-forget: a single-document merge with no
// precondition. No caller identity is required and repeated views by the same
// user all count; that inaccuracy is accepted, not a bug.
func (s *viewService) RecordView(ctx context.Context, postID string) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return
	}

	// Detach from the caller's cancellation: navigating away should not
	// abort an increment already in flight, only the timeout bounds it.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	// MustExist keeps a view on a just-deleted post from resurrecting a
	// stray post document.
	err := s.store.BatchCommit(recordCtx, []docstore.Write{{
		Kind:         docstore.WriteMerge,
		Collection:   posts.Collection,
		ID:           postID,
		Fields:       map[string]any{posts.FieldViews: docstore.Increment(1)},
		Precondition: docstore.MustExist(),
	}})
	if err != nil {
		monitoring.ViewRecords.WithLabelValues("dropped").Inc()
		s.logger.Warn("failed to record view, dropping",
			"error", err,
			"post", postID)
		return
	}
	monitoring.ViewRecords.WithLabelValues("ok").Inc()
}
