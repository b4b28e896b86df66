package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers/follow"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/follows"
)

// RegisterFollowRoutes registers the follow-graph endpoints on the router
func RegisterFollowRoutes(r chi.Router, service follows.Service, authMiddleware *middleware.AuthMiddleware) {
	toggleHandler := follow.NewToggleFollowHandler(service)
	stateHandler := follow.NewIsFollowingHandler(service)

	// Toggle flips the edge and is not idempotent; callers wanting
	// "ensure following" read the state first
	r.With(authMiddleware.RequireAuth).Post("/api/follows/toggle", toggleHandler.HandleToggleFollow)
	r.With(authMiddleware.RequireAuth).Get("/api/follows/state", stateHandler.HandleIsFollowing)
}
