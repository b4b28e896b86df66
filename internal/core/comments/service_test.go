package comments

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/docstore/memory"
	"github.com/irfan106/its-your-story/internal/notify"
)

func seedPost(t *testing.T, store docstore.Store, id string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), posts.Collection, id, map[string]any{
		posts.FieldTitle:     "a story",
		posts.FieldTimestamp: time.Now().UTC(),
	}))
}

func TestAddCommentValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1")
	svc := NewService(store, nil, nil)

	tests := []struct {
		name    string
		caller  string
		postID  string
		content string
		wantErr error
	}{
		{name: "no caller", caller: "", postID: "p1", content: "hi", wantErr: ErrUnauthenticated},
		{name: "blank content", caller: "alice", postID: "p1", content: "   ", wantErr: ErrContentEmpty},
		{name: "unknown post", caller: "alice", postID: "ghost", content: "hi", wantErr: ErrPostNotFound},
		{name: "content too long", caller: "alice", postID: "p1", content: strings.Repeat("x", maxContentGraphemes+1), wantErr: ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddComment(ctx, tt.caller, "Alice", tt.postID, tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddCommentStoresAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1")

	broker := notify.NewBroker()
	events, cancel := broker.Subscribe(notify.PostChannel("p1"))
	defer cancel()

	svc := NewService(store, broker, nil)

	comment, err := svc.AddComment(ctx, "alice", "Alice", "p1", "  great story  ")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "alice", comment.UserID)
	assert.Equal(t, "great story", comment.Content, "content is trimmed")
	assert.False(t, comment.Timestamp.IsZero())

	event := <-events
	assert.Equal(t, notify.EventComment, event.Type)
	assert.Equal(t, "alice", event.Actor)
	assert.Equal(t, "p1", event.Entity)
	assert.Equal(t, int64(1), event.Count)
}

func TestListCommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1")
	svc := NewService(store, nil, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.AddComment(ctx, "alice", "Alice", "p1", fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	resp, err := svc.ListComments(ctx, ListCommentsRequest{PostID: "p1"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 5)
	assert.Empty(t, resp.NextCursor)

	for i, c := range resp.Items {
		assert.Equal(t, fmt.Sprintf("comment %d", i), c.Content, "thread reads in conversation order")
	}
}

func TestListCommentsCursorWalksWholeThread(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1")
	svc := NewService(store, nil, nil)

	const total = 7
	for i := 0; i < total; i++ {
		_, err := svc.AddComment(ctx, "alice", "Alice", "p1", fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	seen := make(map[string]bool)
	cursor := ""
	for {
		resp, err := svc.ListComments(ctx, ListCommentsRequest{
			PostID:   "p1",
			Cursor:   cursor,
			PageSize: 3,
		})
		require.NoError(t, err)
		for _, c := range resp.Items {
			assert.False(t, seen[c.ID], "comment %s returned twice", c.ID)
			seen[c.ID] = true
		}
		if resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	assert.Len(t, seen, total, "no gaps")
}

func TestListCommentsValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedPost(t, store, "p1")
	svc := NewService(store, nil, nil)

	_, err := svc.ListComments(ctx, ListCommentsRequest{PostID: "ghost"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.ListComments(ctx, ListCommentsRequest{PostID: "p1", Cursor: "!!!garbage!!!"})
	assert.ErrorIs(t, err, docstore.ErrInvalidCursor)

	resp, err := svc.ListComments(ctx, ListCommentsRequest{PostID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, resp.Items, "empty thread is an empty page, not an error")
}
