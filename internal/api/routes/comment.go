package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers/comment"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/comments"
)

// RegisterCommentRoutes registers the comment thread endpoints on the router
func RegisterCommentRoutes(r chi.Router, service comments.Service, authMiddleware *middleware.AuthMiddleware) {
	addHandler := comment.NewAddCommentHandler(service)
	listHandler := comment.NewListCommentsHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/api/posts/{postID}/comments", addHandler.HandleAddComment)
	r.Get("/api/posts/{postID}/comments", listHandler.HandleListComments)
}
