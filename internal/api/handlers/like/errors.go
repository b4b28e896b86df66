package like

import (
	"errors"
	"log"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/likes"
	"github.com/irfan106/its-your-story/internal/docstore"
)

// handleServiceError converts like service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, likes.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case errors.Is(err, likes.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "The post was not found")
	case errors.Is(err, likes.ErrConflict):
		handlers.WriteError(w, http.StatusConflict, "Conflict", "A concurrent update collided; please retry")
	case errors.Is(err, docstore.ErrUnavailable):
		handlers.WriteError(w, http.StatusServiceUnavailable, "StoreUnavailable", "The data store is temporarily unavailable")
	default:
		log.Printf("like handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
