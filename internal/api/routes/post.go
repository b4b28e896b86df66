package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers/post"
	"github.com/irfan106/its-your-story/internal/api/handlers/view"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/likes"
	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/core/views"
)

// RegisterPostRoutes registers post content and view endpoints on the router
func RegisterPostRoutes(r chi.Router, postService posts.Service, likeService likes.Service, viewService views.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(postService)
	getHandler := post.NewGetHandler(postService, likeService)
	updateHandler := post.NewUpdateHandler(postService)
	deleteHandler := post.NewDeleteHandler(postService)
	viewHandler := view.NewRecordViewHandler(viewService)

	r.With(authMiddleware.RequireAuth).Post("/api/posts", createHandler.HandleCreate)
	r.With(authMiddleware.OptionalAuth).Get("/api/posts/{postID}", getHandler.HandleGet)
	r.With(authMiddleware.RequireAuth).Put("/api/posts/{postID}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/api/posts/{postID}", deleteHandler.HandleDelete)

	// View beacons need no identity and never fail the caller
	r.Post("/api/posts/{postID}/views", viewHandler.HandleRecordView)
}
