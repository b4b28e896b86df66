// Package notify fans out engagement state changes to live subscribers so the
// UI can reflect follow/like updates without polling. Services publish after a
// successful commit; publishing is best-effort and never fails the mutation.
package notify

import (
	"context"
	"time"
)

// Event types emitted after successful commits
const (
	EventFollow   = "follow"
	EventUnfollow = "unfollow"
	EventLike     = "like"
	EventUnlike   = "unlike"
	EventComment  = "comment"
)

// Event is one engagement state change on a single entity.
type Event struct {
	Type string `json:"type"`

	// Actor is the user who performed the action
	Actor string `json:"actor"`

	// Entity is the user or post the action landed on
	Entity string `json:"entity"`

	// Count is the entity's counter value after the commit
	// (followers for follow events, likeCount for like events)
	Count int64 `json:"count"`

	At time.Time `json:"at"`
}

// UserChannel names the pub/sub channel for one user's engagement state.
func UserChannel(userID string) string {
	return "user:" + userID
}

// PostChannel names the pub/sub channel for one post's engagement state.
func PostChannel(postID string) string {
	return "post:" + postID
}

// Publisher pushes events to whatever transport carries them to subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

// NopPublisher drops every event. Used when real-time updates are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, channel string, event Event) error {
	return nil
}
