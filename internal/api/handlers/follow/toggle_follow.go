package follow

import (
	"encoding/json"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/follows"
)

// ToggleFollowHandler handles follow/unfollow toggles
type ToggleFollowHandler struct {
	service follows.Service
}

// NewToggleFollowHandler creates a new toggle follow handler
func NewToggleFollowHandler(service follows.Service) *ToggleFollowHandler {
	return &ToggleFollowHandler{service: service}
}

// HandleToggleFollow flips the caller's follow edge to the target user
// POST /api/follows/toggle
//
// Request body: { "targetId": "u2" }
// Response: { "following": true }
func (h *ToggleFollowHandler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetID string `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.TargetID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "targetId is required")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	following, err := h.service.ToggleFollow(r.Context(), callerID, req.TargetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"following": following,
	})
}
