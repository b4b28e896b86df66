package comment

import (
	"errors"
	"log"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/comments"
	"github.com/irfan106/its-your-story/internal/docstore"
)

// handleServiceError converts comment service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comments.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case errors.Is(err, comments.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "The post was not found")
	case errors.Is(err, comments.ErrContentEmpty):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Comment content is required")
	case errors.Is(err, comments.ErrContentTooLong):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Comment content is too long")
	case errors.Is(err, docstore.ErrInvalidCursor):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidCursor", "The pagination cursor is malformed")
	case errors.Is(err, docstore.ErrUnavailable):
		handlers.WriteError(w, http.StatusServiceUnavailable, "StoreUnavailable", "The data store is temporarily unavailable")
	default:
		log.Printf("comment handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
