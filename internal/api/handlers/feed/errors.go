package feed

import (
	"errors"
	"log"
	"net/http"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/core/feeds"
	"github.com/irfan106/its-your-story/internal/docstore"
)

// handleServiceError converts feed service errors to HTTP responses.
// A failed read returns an error status, never an empty page: callers must be
// able to tell failure from an empty result set.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case feeds.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, docstore.ErrInvalidCursor):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidCursor", "The pagination cursor is malformed")
	case errors.Is(err, docstore.ErrUnavailable):
		handlers.WriteError(w, http.StatusServiceUnavailable, "StoreUnavailable", "The data store is temporarily unavailable")
	default:
		log.Printf("feed handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
