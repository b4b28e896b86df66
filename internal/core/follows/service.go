// Package follows maintains the directed follow graph: mirrored per-user edge
// sets plus the denormalized followers/following counters, kept consistent by
// moving every edge and counter change through one atomic batch commit.
package follows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/irfan106/its-your-story/internal/core/users"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/monitoring"
	"github.com/irfan106/its-your-story/internal/notify"
)

// FieldFollowedAt is the only attribute on an edge document; the edge itself
// is a presence-only relation.
const FieldFollowedAt = "followedAt"

// followingCollection holds the outbound edges of one user, keyed by target ID.
func followingCollection(userID string) string {
	return "users/" + userID + "/following"
}

// followersCollection holds the inbound edges of one user, keyed by follower ID.
func followersCollection(userID string) string {
	return "users/" + userID + "/followers"
}

type followService struct {
	store     docstore.Store
	publisher notify.Publisher
	logger    *slog.Logger
}

// NewService creates a new follow graph service
func NewService(store docstore.Store, publisher notify.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &followService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// ToggleFollow flips the follow edge between caller and target.
// The read-decide-write cycle runs at most twice: a failed batch precondition
// means another toggle on the same edge committed first, so the cycle re-reads
// the now-current state and re-derives the correct action. That keeps the
// counters equal to the true edge-set cardinality under double-click races.
func (s *followService) ToggleFollow(ctx context.Context, callerID, targetID string) (bool, error) {
	callerID = strings.TrimSpace(callerID)
	targetID = strings.TrimSpace(targetID)

	if callerID == "" {
		return false, ErrUnauthenticated
	}
	if targetID == "" {
		return false, ErrUserNotFound
	}
	if callerID == targetID {
		return false, ErrSelfFollow
	}

	// Target must exist; rejecting here keeps dangling edges out of the graph
	if _, err := s.store.Get(ctx, users.Collection, targetID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to look up target user: %w", err)
	}

	following, err := s.toggleOnce(ctx, callerID, targetID)
	if errors.Is(err, docstore.ErrConflict) {
		monitoring.ToggleConflicts.WithLabelValues("follow").Inc()
		s.logger.Warn("follow toggle conflict, retrying from fresh read",
			"caller", callerID,
			"target", targetID)
		following, err = s.toggleOnce(ctx, callerID, targetID)
	}
	if errors.Is(err, docstore.ErrConflict) {
		return false, fmt.Errorf("%w: %v", ErrConflict, err)
	}
	if err != nil {
		return false, err
	}

	action := notify.EventUnfollow
	if following {
		action = notify.EventFollow
	}
	monitoring.EngagementToggles.WithLabelValues("follow", action).Inc()
	s.logger.Info("follow toggled",
		"caller", callerID,
		"target", targetID,
		"following", following)

	s.publishState(ctx, callerID, targetID, following)
	return following, nil
}

// toggleOnce runs one read-decide-write cycle. The edge documents carry
// existence preconditions, so two racing identical toggles cannot both apply:
// the loser's batch is rejected as a unit with ErrConflict.
func (s *followService) toggleOnce(ctx context.Context, callerID, targetID string) (bool, error) {
	_, err := s.store.Get(ctx, followingCollection(callerID), targetID)
	alreadyFollowing := err == nil
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return false, fmt.Errorf("failed to read follow edge: %w", err)
	}

	var writes []docstore.Write
	if alreadyFollowing {
		writes = []docstore.Write{
			{
				Kind:         docstore.WriteDelete,
				Collection:   followingCollection(callerID),
				ID:           targetID,
				Precondition: docstore.MustExist(),
			},
			{
				Kind:         docstore.WriteDelete,
				Collection:   followersCollection(targetID),
				ID:           callerID,
				Precondition: docstore.MustExist(),
			},
			{
				Kind:       docstore.WriteMerge,
				Collection: users.Collection,
				ID:         callerID,
				Fields:     map[string]any{users.FieldFollowing: docstore.IncrementFloored(-1)},
			},
			{
				Kind:       docstore.WriteMerge,
				Collection: users.Collection,
				ID:         targetID,
				Fields:     map[string]any{users.FieldFollowers: docstore.IncrementFloored(-1)},
			},
		}
	} else {
		followedAt := time.Now().UTC()
		writes = []docstore.Write{
			{
				Kind:         docstore.WriteSet,
				Collection:   followingCollection(callerID),
				ID:           targetID,
				Fields:       map[string]any{FieldFollowedAt: followedAt},
				Precondition: docstore.MustNotExist(),
			},
			{
				Kind:         docstore.WriteSet,
				Collection:   followersCollection(targetID),
				ID:           callerID,
				Fields:       map[string]any{FieldFollowedAt: followedAt},
				Precondition: docstore.MustNotExist(),
			},
			{
				Kind:       docstore.WriteMerge,
				Collection: users.Collection,
				ID:         callerID,
				Fields:     map[string]any{users.FieldFollowing: docstore.Increment(1)},
			},
			{
				Kind:       docstore.WriteMerge,
				Collection: users.Collection,
				ID:         targetID,
				Fields:     map[string]any{users.FieldFollowers: docstore.Increment(1)},
			},
		}
	}

	if err := s.store.BatchCommit(ctx, writes); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return false, err
		}
		return false, fmt.Errorf("failed to commit follow toggle: %w", err)
	}
	return !alreadyFollowing, nil
}

// IsFollowing reports the caller's current follow state for target
func (s *followService) IsFollowing(ctx context.Context, callerID, targetID string) (bool, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return false, ErrUnauthenticated
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" || callerID == targetID {
		return false, nil
	}

	_, err := s.store.Get(ctx, followingCollection(callerID), targetID)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read follow edge: %w", err)
	}
	return true, nil
}

// publishState pushes the target's new follower count to live subscribers.
// Failures are logged and dropped; the commit already happened.
func (s *followService) publishState(ctx context.Context, callerID, targetID string, following bool) {
	eventType := notify.EventUnfollow
	if following {
		eventType = notify.EventFollow
	}

	var count int64
	if doc, err := s.store.Get(ctx, users.Collection, targetID); err == nil {
		count = docstore.Int64Field(doc.Fields, users.FieldFollowers)
	}

	err := s.publisher.Publish(ctx, notify.UserChannel(targetID), notify.Event{
		Type:   eventType,
		Actor:  callerID,
		Entity: targetID,
		Count:  count,
		At:     time.Now().UTC(),
	})
	if err != nil {
		monitoring.NotifyPublishes.WithLabelValues("error").Inc()
		s.logger.Warn("failed to publish follow event",
			"error", err,
			"target", targetID)
		return
	}
	monitoring.NotifyPublishes.WithLabelValues("ok").Inc()
}
