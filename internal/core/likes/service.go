// Package likes maintains the per-post like ledger: a presence-only set of
// liking user IDs plus the denormalized likeCount counter, moved together in
// one atomic batch per toggle.
package likes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/monitoring"
	"github.com/irfan106/its-your-story/internal/notify"
)

// FieldLikedAt is the only attribute on a ledger record
const FieldLikedAt = "likedAt"

// ledgerCollection holds the like records of one post, keyed by user ID.
func ledgerCollection(postID string) string {
	return "posts/" + postID + "/likes"
}

type likeService struct {
	store     docstore.Store
	publisher notify.Publisher
	logger    *slog.Logger
}

// NewService creates a new like ledger service
func NewService(store docstore.Store, publisher notify.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &likeService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// ToggleLike flips the caller's like on a post. Same toggle-with-mirror-counter
// pattern as follows, but single-sided: one ledger record plus one counter on
// the post, no reciprocal entity.
func (s *likeService) ToggleLike(ctx context.Context, callerID, postID string) (*LikeState, error) {
	callerID = strings.TrimSpace(callerID)
	postID = strings.TrimSpace(postID)

	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	if postID == "" {
		return nil, ErrPostNotFound
	}

	if _, err := s.store.Get(ctx, posts.Collection, postID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}

	liked, err := s.toggleOnce(ctx, callerID, postID)
	if errors.Is(err, docstore.ErrConflict) {
		monitoring.ToggleConflicts.WithLabelValues("like").Inc()
		s.logger.Warn("like toggle conflict, retrying from fresh read",
			"caller", callerID,
			"post", postID)
		liked, err = s.toggleOnce(ctx, callerID, postID)
	}
	if errors.Is(err, docstore.ErrConflict) {
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	}
	if err != nil {
		return nil, err
	}

	state := &LikeState{Liked: liked}
	if doc, err := s.store.Get(ctx, posts.Collection, postID); err == nil {
		state.LikeCount = docstore.Int64Field(doc.Fields, posts.FieldLikeCount)
	}

	action := notify.EventUnlike
	if liked {
		action = notify.EventLike
	}
	monitoring.EngagementToggles.WithLabelValues("like", action).Inc()
	s.logger.Info("like toggled",
		"caller", callerID,
		"post", postID,
		"liked", liked)

	s.publishState(ctx, callerID, postID, action, state.LikeCount)
	return state, nil
}

// toggleOnce runs one read-decide-write cycle with an existence precondition
// on the ledger record, so racing identical toggles cannot double-apply.
func (s *likeService) toggleOnce(ctx context.Context, callerID, postID string) (bool, error) {
	_, err := s.store.Get(ctx, ledgerCollection(postID), callerID)
	alreadyLiked := err == nil
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return false, fmt.Errorf("failed to read like record: %w", err)
	}

	var writes []docstore.Write
	if alreadyLiked {
		writes = []docstore.Write{
			{
				Kind:         docstore.WriteDelete,
				Collection:   ledgerCollection(postID),
				ID:           callerID,
				Precondition: docstore.MustExist(),
			},
			{
				Kind:       docstore.WriteMerge,
				Collection: posts.Collection,
				ID:         postID,
				Fields:     map[string]any{posts.FieldLikeCount: docstore.IncrementFloored(-1)},
			},
		}
	} else {
		writes = []docstore.Write{
			{
				Kind:         docstore.WriteSet,
				Collection:   ledgerCollection(postID),
				ID:           callerID,
				Fields:       map[string]any{FieldLikedAt: time.Now().UTC()},
				Precondition: docstore.MustNotExist(),
			},
			{
				Kind:       docstore.WriteMerge,
				Collection: posts.Collection,
				ID:         postID,
				Fields:     map[string]any{posts.FieldLikeCount: docstore.Increment(1)},
			},
		}
	}

	if err := s.store.BatchCommit(ctx, writes); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return false, err
		}
		return false, fmt.Errorf("failed to commit like toggle: %w", err)
	}
	return !alreadyLiked, nil
}

// IsLiked reports whether the caller currently likes the post
func (s *likeService) IsLiked(ctx context.Context, callerID, postID string) (bool, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return false, ErrUnauthenticated
	}

	_, err := s.store.Get(ctx, ledgerCollection(postID), callerID)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read like record: %w", err)
	}
	return true, nil
}

func (s *likeService) publishState(ctx context.Context, callerID, postID, eventType string, count int64) {
	err := s.publisher.Publish(ctx, notify.PostChannel(postID), notify.Event{
		Type:   eventType,
		Actor:  callerID,
		Entity: postID,
		Count:  count,
		At:     time.Now().UTC(),
	})
	if err != nil {
		monitoring.NotifyPublishes.WithLabelValues("error").Inc()
		s.logger.Warn("failed to publish like event",
			"error", err,
			"post", postID)
		return
	}
	monitoring.NotifyPublishes.WithLabelValues("ok").Inc()
}
