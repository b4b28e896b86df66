package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers/feed"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/feeds"
)

// RegisterFeedRoutes registers the listing endpoints on the router.
// Static segments (cursor, trending, tags, mine) are registered alongside the
// {postID} routes; chi resolves static matches first.
func RegisterFeedRoutes(r chi.Router, service feeds.Service, authMiddleware *middleware.AuthMiddleware) {
	listHandler := feed.NewListPostsHandler(service)
	cursorHandler := feed.NewListByCursorHandler(service)
	trendingHandler := feed.NewTrendingHandler(service)

	// Page-numbered listing for jump-to-page UIs
	r.Get("/api/posts", listHandler.HandleListPosts)

	// Cursor listing for monotonic "load next" feeds
	r.Get("/api/posts/cursor", cursorHandler.HandleListByCursor)
	r.With(authMiddleware.RequireAuth).Get("/api/posts/mine", cursorHandler.HandleListMine)

	r.Get("/api/posts/trending", trendingHandler.HandleTrending)
	r.Get("/api/posts/tags", trendingHandler.HandleTags)
}
