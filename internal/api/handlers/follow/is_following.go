package follow

import (
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/follows"
)

// IsFollowingHandler answers follow-state reads
type IsFollowingHandler struct {
	service follows.Service
}

// NewIsFollowingHandler creates a new is-following handler
func NewIsFollowingHandler(service follows.Service) *IsFollowingHandler {
	return &IsFollowingHandler{service: service}
}

// HandleIsFollowing reports whether the caller follows the target
// GET /api/follows/state?targetId=u2
//
// Response: { "following": false }
func (h *IsFollowingHandler) HandleIsFollowing(w http.ResponseWriter, r *http.Request) {
	targetID := r.URL.Query().Get("targetId")
	if targetID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "targetId is required")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	following, err := h.service.IsFollowing(r.Context(), callerID, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"following": following,
	})
}
