package like

import (
	"encoding/json"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/likes"
)

// ToggleLikeHandler handles like/unlike toggles
type ToggleLikeHandler struct {
	service likes.Service
}

// NewToggleLikeHandler creates a new toggle like handler
func NewToggleLikeHandler(service likes.Service) *ToggleLikeHandler {
	return &ToggleLikeHandler{service: service}
}

// HandleToggleLike flips the caller's like on a post
// POST /api/likes/toggle
//
// Request body: { "postId": "p1" }
// Response: { "liked": true, "likeCount": 3 }
func (h *ToggleLikeHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID string `json:"postId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.PostID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	state, err := h.service.ToggleLike(r.Context(), callerID, req.PostID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}
