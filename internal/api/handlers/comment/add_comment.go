package comment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/comments"
)

// AddCommentHandler handles comment submission
type AddCommentHandler struct {
	service comments.Service
}

// NewAddCommentHandler creates a new add comment handler
func NewAddCommentHandler(service comments.Service) *AddCommentHandler {
	return &AddCommentHandler{service: service}
}

// HandleAddComment appends a comment to the post's thread
// POST /api/posts/{postID}/comments
//
// Request body: { "content": "..." }
func (h *AddCommentHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	created, err := h.service.AddComment(r.Context(), callerID, middleware.GetDisplayName(r), chi.URLParam(r, "postID"), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, created)
}
