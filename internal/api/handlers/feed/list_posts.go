package feed

import (
	"net/http"
	"strconv"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/feeds"
)

// ListPostsHandler serves the page-numbered listing
type ListPostsHandler struct {
	service feeds.Service
}

// NewListPostsHandler creates a new list posts handler
func NewListPostsHandler(service feeds.Service) *ListPostsHandler {
	return &ListPostsHandler{service: service}
}

// HandleListPosts returns one absolute page of the filtered, sorted listing
// GET /api/posts?category=Tech&authorId=u1&search=go&sort=timestamp&direction=desc&page=2&pageSize=6
//
// Response: { "items": [...], "currentPage": 2, "totalPages": 3 }
//
// Page numbers are absolute so the UI can jump to any page; under concurrent
// writes items may shift across page boundaries between requests. That is
// inherent to offset paging and accepted here.
func (h *ListPostsHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	req := feeds.ListPostsRequest{
		Filter: filterFromQuery(r),
		Sort:   sortFromQuery(r),
	}
	req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.service.ListPosts(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

func filterFromQuery(r *http.Request) feeds.Filter {
	q := r.URL.Query()
	return feeds.Filter{
		Category:    q.Get("category"),
		AuthorID:    q.Get("authorId"),
		TitlePrefix: q.Get("search"),
	}
}

func sortFromQuery(r *http.Request) feeds.Sort {
	q := r.URL.Query()
	return feeds.Sort{
		Field:     q.Get("sort"),
		Direction: q.Get("direction"),
	}
}
