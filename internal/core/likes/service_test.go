package likes

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/docstore/memory"
)

func seedPost(t *testing.T, store docstore.Store, id string, likeCount int64) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), posts.Collection, id, map[string]any{
		posts.FieldAuthorID:  "author-1",
		posts.FieldTitle:     "a story",
		posts.FieldTimestamp: time.Now().UTC(),
		posts.FieldViews:     int64(0),
		posts.FieldLikeCount: likeCount,
	}))
}

func postLikeCount(t *testing.T, store docstore.Store, id string) int64 {
	t.Helper()
	doc, err := store.Get(context.Background(), posts.Collection, id)
	require.NoError(t, err)
	return docstore.Int64Field(doc.Fields, posts.FieldLikeCount)
}

func TestToggleLikeValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1", 0)
	svc := NewService(store, nil, nil)

	_, err := svc.ToggleLike(ctx, "", "p1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ToggleLike(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.ToggleLike(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1", 0)
	svc := NewService(store, nil, nil)

	state, err := svc.ToggleLike(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.LikeCount)

	liked, err := svc.IsLiked(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, liked)

	state, err = svc.ToggleLike(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.LikeCount)

	liked, err = svc.IsLiked(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLikeIsPerUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1", 0)
	svc := NewService(store, nil, nil)

	_, err := svc.ToggleLike(ctx, "alice", "p1")
	require.NoError(t, err)
	state, err := svc.ToggleLike(ctx, "bob", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.LikeCount)

	// Alice unliking does not touch bob's record.
	state, err = svc.ToggleLike(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.LikeCount)

	liked, err := svc.IsLiked(ctx, "bob", "p1")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikeCountNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	// Seed a post whose counter already understates the ledger, then unlike.
	seedPost(t, store, "p1", 0)
	require.NoError(t, store.Set(ctx, "posts/p1/likes", "alice", map[string]any{
		FieldLikedAt: time.Now().UTC(),
	}))

	svc := NewService(store, nil, nil)
	state, err := svc.ToggleLike(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.LikeCount, "decrement clamps at zero")
}

// conflictStore fails the first n batch commits with ErrConflict.
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

func TestToggleLikeRetriesOnceOnConflict(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	seedPost(t, inner, "p1", 0)

	store := &conflictStore{Store: inner, conflicts: 1}
	svc := NewService(store, nil, nil)

	state, err := svc.ToggleLike(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), postLikeCount(t, inner, "p1"))
}

func TestToggleLikeGivesUpAfterSecondConflict(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	seedPost(t, inner, "p1", 0)

	store := &conflictStore{Store: inner, conflicts: 2}
	svc := NewService(store, nil, nil)

	_, err := svc.ToggleLike(ctx, "alice", "p1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Zero(t, postLikeCount(t, inner, "p1"))
}

// Two concurrent toggles from the same caller: both may read "not liked"
// before either commits. The ledger precondition rejects the loser's batch and
// its retry re-reads the committed state, deriving the opposite action instead
// of double-applying. Net effect is one like and one unlike in some order.
func TestConcurrentSameUserTogglesResolveToOpposite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1", 0)
	svc := NewService(store, nil, nil)

	results := make(chan bool, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := svc.ToggleLike(ctx, "alice", "p1")
			assert.NoError(t, err)
			if err == nil {
				results <- state.Liked
			}
		}()
	}
	wg.Wait()
	close(results)

	var liked, unliked int
	for r := range results {
		if r {
			liked++
		} else {
			unliked++
		}
	}
	assert.Equal(t, 1, liked, "exactly one call reports the like")
	assert.Equal(t, 1, unliked, "the other reports the unlike")

	// Final state is back where it started, counter matching the ledger.
	ledger, err := store.Count(ctx, "posts/p1/likes", nil)
	require.NoError(t, err)
	assert.Zero(t, ledger)
	assert.Zero(t, postLikeCount(t, store, "p1"))
}

func TestConcurrentLikesMatchLedger(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1", 0)
	svc := NewService(store, nil, nil)

	const users = 10
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(caller string) {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, caller, "p1")
			assert.NoError(t, err)
		}(fmt.Sprintf("user-%d", i))
	}
	wg.Wait()

	ledger, err := store.Count(ctx, "posts/p1/likes", nil)
	require.NoError(t, err)
	assert.Equal(t, ledger, postLikeCount(t, store, "p1"))
	assert.Equal(t, int64(users), ledger)
}
