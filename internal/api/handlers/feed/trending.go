package feed

import (
	"net/http"
	"strconv"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/feeds"
)

// TrendingHandler serves the most-viewed posts
type TrendingHandler struct {
	service feeds.Service
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(service feeds.Service) *TrendingHandler {
	return &TrendingHandler{service: service}
}

// HandleTrending returns the top posts by view count
// GET /api/posts/trending?limit=10
func (h *TrendingHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.Trending(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

// HandleTags returns the distinct tag union across all posts
// GET /api/posts/tags
func (h *TrendingHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.Tags(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"tags": tags,
	})
}
