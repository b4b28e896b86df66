package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/posts"
)

// UpdateHandler handles author edits
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new update post handler
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate replaces the content fields of the caller's post
// PUT /api/posts/{postID}
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req posts.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	updated, err := h.service.Update(r.Context(), callerID, chi.URLParam(r, "postID"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, updated)
}
