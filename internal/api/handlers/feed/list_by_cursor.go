package feed

import (
	"net/http"
	"strconv"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/feeds"
)

// ListByCursorHandler serves the "load next" style listings
type ListByCursorHandler struct {
	service feeds.Service
}

// NewListByCursorHandler creates a new cursor listing handler
func NewListByCursorHandler(service feeds.Service) *ListByCursorHandler {
	return &ListByCursorHandler{service: service}
}

// HandleListByCursor returns the next slice of the filtered, sorted listing
// GET /api/posts/cursor?category=Tech&sort=timestamp&direction=desc&cursor=...&pageSize=6
//
// Response: { "items": [...], "nextCursor": "..." }
// An absent nextCursor means the listing is exhausted.
func (h *ListByCursorHandler) HandleListByCursor(w http.ResponseWriter, r *http.Request) {
	req := feeds.ListByCursorRequest{
		Filter: filterFromQuery(r),
		Sort:   sortFromQuery(r),
		Cursor: r.URL.Query().Get("cursor"),
	}
	req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.service.ListPostsByCursor(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleListMine returns the caller's own posts, newest first
// GET /api/posts/mine?cursor=...&pageSize=6
//
// Uses cursor paging: "my stories" is a load-next feed and must iterate
// without duplicates or gaps.
func (h *ListByCursorHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	req := feeds.ListByCursorRequest{
		Filter: feeds.Filter{AuthorID: callerID},
		Cursor: r.URL.Query().Get("cursor"),
	}
	req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.service.ListPostsByCursor(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}
