package comment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/comments"
)

// ListCommentsHandler serves comment thread reads
type ListCommentsHandler struct {
	service comments.Service
}

// NewListCommentsHandler creates a new list comments handler
func NewListCommentsHandler(service comments.Service) *ListCommentsHandler {
	return &ListCommentsHandler{service: service}
}

// HandleListComments returns the post's comments oldest first
// GET /api/posts/{postID}/comments?cursor=...&pageSize=20
//
// Response: { "items": [...], "nextCursor": "..." }
func (h *ListCommentsHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	req := comments.ListCommentsRequest{
		PostID: chi.URLParam(r, "postID"),
		Cursor: r.URL.Query().Get("cursor"),
	}
	req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.service.ListComments(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}
