package follow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/follows"
	"github.com/irfan106/its-your-story/internal/core/users"
	"github.com/irfan106/its-your-story/internal/docstore/memory"
)

func newTestHandler(t *testing.T) (*ToggleFollowHandler, *IsFollowingHandler) {
	t.Helper()
	store := memory.New()
	for _, id := range []string{"alice", "bob"} {
		require.NoError(t, store.Set(context.Background(), users.Collection, id, map[string]any{
			users.FieldDisplayName: id,
			users.FieldFollowers:   int64(0),
			users.FieldFollowing:   int64(0),
			users.FieldCreatedAt:   time.Now().UTC(),
		}))
	}
	svc := follows.NewService(store, nil, nil)
	return NewToggleFollowHandler(svc), NewIsFollowingHandler(svc)
}

func asCaller(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func TestHandleToggleFollow(t *testing.T) {
	toggle, state := newTestHandler(t)

	tests := []struct {
		name       string
		caller     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "follow succeeds",
			caller:     "alice",
			body:       `{"targetId":"bob"}`,
			wantStatus: http.StatusOK,
			wantBody:   `"following":true`,
		},
		{
			name:       "missing target",
			caller:     "alice",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "targetId is required",
		},
		{
			name:       "malformed body",
			caller:     "alice",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no caller identity",
			caller:     "",
			body:       `{"targetId":"bob"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "self follow",
			caller:     "alice",
			body:       `{"targetId":"alice"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "SelfReference",
		},
		{
			name:       "unknown target",
			caller:     "alice",
			body:       `{"targetId":"nobody"}`,
			wantStatus: http.StatusNotFound,
			wantBody:   "UserNotFound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/follows/toggle", strings.NewReader(tt.body))
			if tt.caller != "" {
				req = asCaller(req, tt.caller)
			}
			rec := httptest.NewRecorder()

			toggle.HandleToggleFollow(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("state reflects the earlier toggle", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/follows/state?targetId=bob", nil)
		req = asCaller(req, "alice")
		rec := httptest.NewRecorder()

		state.HandleIsFollowing(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Following bool `json:"following"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Following)
	})
}
