package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/likes"
	"github.com/irfan106/its-your-story/internal/core/posts"
)

// GetHandler serves single-post reads
type GetHandler struct {
	service     posts.Service
	likeService likes.Service
}

// NewGetHandler creates a new get post handler
func NewGetHandler(service posts.Service, likeService likes.Service) *GetHandler {
	return &GetHandler{service: service, likeService: likeService}
}

// postView is a post plus the caller's own like membership flag
type postView struct {
	*posts.Post
	Liked bool `json:"liked"`
}

// HandleGet returns one post, with the caller's like flag when signed in
// GET /api/posts/{postID}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	p, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view := postView{Post: p}
	if callerID := middleware.GetUserID(r); callerID != "" {
		// Like membership is a hydration detail; a failed read just means
		// the flag stays false
		liked, err := h.likeService.IsLiked(r.Context(), callerID, postID)
		if err == nil {
			view.Liked = liked
		}
	}

	handlers.WriteJSON(w, http.StatusOK, view)
}
