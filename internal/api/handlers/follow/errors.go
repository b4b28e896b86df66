package follow

import (
	"errors"
	"log"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/follows"
	"github.com/irfan106/its-your-story/internal/docstore"
)

// handleServiceError converts follow service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, follows.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case errors.Is(err, follows.ErrSelfFollow):
		handlers.WriteError(w, http.StatusBadRequest, "SelfReference", "You cannot follow yourself")
	case errors.Is(err, follows.ErrUserNotFound):
		handlers.WriteError(w, http.StatusNotFound, "UserNotFound", "The target user was not found")
	case errors.Is(err, follows.ErrConflict):
		handlers.WriteError(w, http.StatusConflict, "Conflict", "A concurrent update collided; please retry")
	case errors.Is(err, docstore.ErrUnavailable):
		handlers.WriteError(w, http.StatusServiceUnavailable, "StoreUnavailable", "The data store is temporarily unavailable")
	default:
		log.Printf("follow handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
