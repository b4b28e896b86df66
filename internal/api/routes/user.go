package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers/user"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/users"
)

// RegisterUserRoutes registers the user profile endpoints on the router
func RegisterUserRoutes(r chi.Router, service users.Service, authMiddleware *middleware.AuthMiddleware) {
	profileHandler := user.NewProfileHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/api/users/signin", profileHandler.HandleSignIn)
	r.Get("/api/users/{userID}", profileHandler.HandleGetProfile)
}
