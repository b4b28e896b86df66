package feeds

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/docstore/memory"
)

// seedPosts writes n posts with ascending timestamps, alternating authors and
// categories, views = i*10. post-00 is the oldest.
func seedPosts(t *testing.T, store docstore.Store, n int) {
	t.Helper()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		category := "life"
		if i%2 == 0 {
			category = "tech"
		}
		author := "alice"
		if i%3 == 0 {
			author = "bob"
		}
		require.NoError(t, store.Set(context.Background(), posts.Collection, fmt.Sprintf("post-%02d", i), map[string]any{
			posts.FieldAuthorID:  author,
			posts.FieldTitle:     fmt.Sprintf("Story %02d", i),
			posts.FieldBody:      "body",
			posts.FieldCategory:  category,
			posts.FieldTags:      []string{category, fmt.Sprintf("tag%d", i%4)},
			posts.FieldTimestamp: base.Add(time.Duration(i) * time.Hour),
			posts.FieldViews:     int64(i * 10),
			posts.FieldLikeCount: int64(0),
		}))
	}
}

func TestListPostsPaging(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 13)
	svc := NewService(store, nil)

	// 13 posts at 6 per page: pages of 6, 6, 1.
	resp, err := svc.ListPosts(ctx, ListPostsRequest{Page: 1, PageSize: 6})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, "post-12", resp.Items[0].ID, "newest first by default")

	resp, err = svc.ListPosts(ctx, ListPostsRequest{Page: 2, PageSize: 6})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)
	assert.Equal(t, "post-06", resp.Items[0].ID)

	resp, err = svc.ListPosts(ctx, ListPostsRequest{Page: 3, PageSize: 6})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "post-00", resp.Items[0].ID)

	// Past the end: empty page, same total.
	resp, err = svc.ListPosts(ctx, ListPostsRequest{Page: 9, PageSize: 6})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestListPostsDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 8)
	svc := NewService(store, nil)

	// Zero page and pageSize fall back to page 1, default size.
	resp, err := svc.ListPosts(ctx, ListPostsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)
	assert.Equal(t, 1, resp.CurrentPage)

	_, err = svc.ListPosts(ctx, ListPostsRequest{PageSize: -1})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.ListPosts(ctx, ListPostsRequest{PageSize: 500})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.ListPosts(ctx, ListPostsRequest{Sort: Sort{Field: "likeCount"}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.ListPosts(ctx, ListPostsRequest{Sort: Sort{Direction: "sideways"}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestListPostsFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 12)
	svc := NewService(store, nil)

	resp, err := svc.ListPosts(ctx, ListPostsRequest{
		Filter:   Filter{Category: "tech"},
		PageSize: 50,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)
	assert.Equal(t, 1, resp.TotalPages, "totalPages counts the filtered set")
	for _, p := range resp.Items {
		assert.Equal(t, "tech", p.Category)
	}

	resp, err = svc.ListPosts(ctx, ListPostsRequest{
		Filter:   Filter{AuthorID: "bob"},
		PageSize: 50,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 4)

	resp, err = svc.ListPosts(ctx, ListPostsRequest{
		Filter:   Filter{TitlePrefix: "story 1"},
		PageSize: 50,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2, "case-insensitive prefix matches Story 10 and Story 11")
}

func TestListPostsByCursorWalksWholeSet(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 13)
	svc := NewService(store, nil)

	seen := make(map[string]bool)
	var lastTimestamp time.Time
	cursor := ""
	first := true

	for {
		resp, err := svc.ListPostsByCursor(ctx, ListByCursorRequest{
			Cursor:   cursor,
			PageSize: 5,
		})
		require.NoError(t, err)

		for _, p := range resp.Items {
			assert.False(t, seen[p.ID], "post %s returned twice", p.ID)
			seen[p.ID] = true
			if !first {
				assert.False(t, p.Timestamp.After(lastTimestamp), "ordering is monotone")
			}
			lastTimestamp = p.Timestamp
			first = false
		}

		if resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	assert.Len(t, seen, 13, "no gaps")
}

func TestListPostsByCursorViewsSort(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 7)
	svc := NewService(store, nil)

	resp, err := svc.ListPostsByCursor(ctx, ListByCursorRequest{
		Sort:     Sort{Field: SortViews, Direction: DirectionDesc},
		PageSize: 3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, int64(60), resp.Items[0].Views)
	require.NotEmpty(t, resp.NextCursor)

	resp, err = svc.ListPostsByCursor(ctx, ListByCursorRequest{
		Sort:     Sort{Field: SortViews, Direction: DirectionDesc},
		Cursor:   resp.NextCursor,
		PageSize: 3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, int64(30), resp.Items[0].Views, "second page picks up exactly where the first ended")
}

func TestListPostsByCursorRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 3)
	svc := NewService(store, nil)

	_, err := svc.ListPostsByCursor(ctx, ListByCursorRequest{Cursor: "!!!not-a-cursor!!!"})
	assert.ErrorIs(t, err, docstore.ErrInvalidCursor)
}

func TestTrending(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 10)
	svc := NewService(store, nil)

	top, err := svc.Trending(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, int64(90), top[0].Views)
	assert.Equal(t, int64(80), top[1].Views)
	assert.Equal(t, int64(70), top[2].Views)

	// Zero limit falls back to the default of 10.
	top, err = svc.Trending(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 10)
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPosts(t, store, 8)
	svc := NewService(store, nil)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"life", "tag0", "tag1", "tag2", "tag3", "tech"}, tags)
}

func TestTagsEmptyCollection(t *testing.T) {
	svc := NewService(memory.New(), nil)
	tags, err := svc.Tags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
}
