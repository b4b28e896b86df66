package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers/like"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/likes"
)

// RegisterLikeRoutes registers the like-ledger endpoints on the router
func RegisterLikeRoutes(r chi.Router, service likes.Service, authMiddleware *middleware.AuthMiddleware) {
	toggleHandler := like.NewToggleLikeHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/api/likes/toggle", toggleHandler.HandleToggleLike)
}
