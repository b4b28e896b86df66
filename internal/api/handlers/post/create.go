package post

import (
	"encoding/json"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/posts"
)

// CreateHandler handles post publishing
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create post handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate publishes a new post
// POST /api/posts
//
// Request body: { "title": "...", "body": "...", "category": "...", "tags": [...] }
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req posts.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}
	if req.Author == "" {
		req.Author = middleware.GetDisplayName(r)
	}

	created, err := h.service.Create(r.Context(), callerID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, created)
}
