package follows

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfan106/its-your-story/internal/core/users"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/docstore/memory"
)

func seedUser(t *testing.T, store docstore.Store, id string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), users.Collection, id, map[string]any{
		users.FieldDisplayName: id,
		users.FieldFollowers:   int64(0),
		users.FieldFollowing:   int64(0),
		users.FieldCreatedAt:   time.Now().UTC(),
	}))
}

func userCounters(t *testing.T, store docstore.Store, id string) (followers, following int64) {
	t.Helper()
	doc, err := store.Get(context.Background(), users.Collection, id)
	require.NoError(t, err)
	return docstore.Int64Field(doc.Fields, users.FieldFollowers),
		docstore.Int64Field(doc.Fields, users.FieldFollowing)
}

func TestToggleFollowValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice")
	svc := NewService(store, nil, nil)

	tests := []struct {
		name    string
		caller  string
		target  string
		wantErr error
	}{
		{name: "empty caller", caller: "", target: "alice", wantErr: ErrUnauthenticated},
		{name: "whitespace caller", caller: "   ", target: "alice", wantErr: ErrUnauthenticated},
		{name: "empty target", caller: "alice", target: "", wantErr: ErrUserNotFound},
		{name: "self follow", caller: "alice", target: "alice", wantErr: ErrSelfFollow},
		{name: "unknown target", caller: "alice", target: "nobody", wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ToggleFollow(ctx, tt.caller, tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestToggleFollowCreatesMirroredEdges(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	svc := NewService(store, nil, nil)

	following, err := svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	// Both sides of the edge exist after a follow.
	_, err = store.Get(ctx, "users/alice/following", "bob")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "users/bob/followers", "alice")
	assert.NoError(t, err)

	aliceFollowers, aliceFollowing := userCounters(t, store, "alice")
	bobFollowers, bobFollowing := userCounters(t, store, "bob")
	assert.Equal(t, int64(0), aliceFollowers)
	assert.Equal(t, int64(1), aliceFollowing)
	assert.Equal(t, int64(1), bobFollowers)
	assert.Equal(t, int64(0), bobFollowing)
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	svc := NewService(store, nil, nil)

	following, err := svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, following)

	following, err = svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, following)

	// Edges are gone from both sides and counters are back to zero.
	_, err = store.Get(ctx, "users/alice/following", "bob")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	_, err = store.Get(ctx, "users/bob/followers", "alice")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	aliceFollowers, aliceFollowing := userCounters(t, store, "alice")
	bobFollowers, bobFollowing := userCounters(t, store, "bob")
	assert.Zero(t, aliceFollowers)
	assert.Zero(t, aliceFollowing)
	assert.Zero(t, bobFollowers)
	assert.Zero(t, bobFollowing)
}

func TestIsFollowing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	svc := NewService(store, nil, nil)

	_, err := svc.IsFollowing(ctx, "", "bob")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	state, err := svc.IsFollowing(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.False(t, state, "self reference is never a follow")

	state, err = svc.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, state)

	_, err = svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err)

	state, err = svc.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, state)

	// Direction matters: bob does not follow alice.
	state, err = svc.IsFollowing(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, state)
}

// conflictStore wraps a real store and forces the first n batch commits to
// fail with ErrConflict, simulating a racing writer that committed first.
type conflictStore struct {
	docstore.Store
	mu        sync.Mutex
	conflicts int
}

func (c *conflictStore) BatchCommit(ctx context.Context, writes []docstore.Write) error {
	c.mu.Lock()
	if c.conflicts > 0 {
		c.conflicts--
		c.mu.Unlock()
		return docstore.ErrConflict
	}
	c.mu.Unlock()
	return c.Store.BatchCommit(ctx, writes)
}

func TestToggleFollowRetriesOnceOnConflict(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	seedUser(t, inner, "alice")
	seedUser(t, inner, "bob")

	store := &conflictStore{Store: inner, conflicts: 1}
	svc := NewService(store, nil, nil)

	following, err := svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err, "a single conflict is absorbed by the retry")
	assert.True(t, following)

	bobFollowers, _ := userCounters(t, inner, "bob")
	assert.Equal(t, int64(1), bobFollowers)
}

func TestToggleFollowGivesUpAfterSecondConflict(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	seedUser(t, inner, "alice")
	seedUser(t, inner, "bob")

	store := &conflictStore{Store: inner, conflicts: 2}
	svc := NewService(store, nil, nil)

	_, err := svc.ToggleFollow(ctx, "alice", "bob")
	assert.ErrorIs(t, err, ErrConflict)

	// Nothing was applied, so the graph stays clean.
	bobFollowers, _ := userCounters(t, inner, "bob")
	assert.Zero(t, bobFollowers)
}

// Double-click race: the same caller toggles the same target twice
// concurrently. The edge preconditions let only one insert commit; the loser's
// retry re-reads the now-current state and derives the unfollow, so the pair
// nets out to a follow then an unfollow rather than a double-applied follow.
func TestConcurrentSameCallerTogglesResolveToOpposite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	svc := NewService(store, nil, nil)

	results := make(chan bool, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			following, err := svc.ToggleFollow(ctx, "alice", "bob")
			assert.NoError(t, err)
			if err == nil {
				results <- following
			}
		}()
	}
	wg.Wait()
	close(results)

	var followed, unfollowed int
	for r := range results {
		if r {
			followed++
		} else {
			unfollowed++
		}
	}
	assert.Equal(t, 1, followed, "exactly one call reports the follow")
	assert.Equal(t, 1, unfollowed, "the other reports the unfollow")

	// Graph and counters are back to their pre-call state.
	_, err := store.Get(ctx, "users/alice/following", "bob")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	_, err = store.Get(ctx, "users/bob/followers", "alice")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	bobFollowers, _ := userCounters(t, store, "bob")
	_, aliceFollowing := userCounters(t, store, "alice")
	assert.Zero(t, bobFollowers)
	assert.Zero(t, aliceFollowing)
}

func TestConcurrentTogglesKeepCountersConsistent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "target")

	const followers = 8
	for i := 0; i < followers; i++ {
		seedUser(t, store, string(rune('a'+i)))
	}

	svc := NewService(store, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func(caller string) {
			defer wg.Done()
			_, err := svc.ToggleFollow(ctx, caller, "target")
			assert.NoError(t, err)
		}(string(rune('a' + i)))
	}
	wg.Wait()

	// Counter equals the true edge-set cardinality.
	count, err := store.Count(ctx, "users/target/followers", nil)
	require.NoError(t, err)
	targetFollowers, _ := userCounters(t, store, "target")
	assert.Equal(t, count, targetFollowers)
	assert.Equal(t, int64(followers), targetFollowers)
}
