package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/api/handlers"
	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/core/users"
	"github.com/irfan106/its-your-story/internal/docstore"
)

// ProfileHandler serves user records and the sign-in hook
type ProfileHandler struct {
	service users.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service users.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// HandleSignIn ensures the caller's user record exists
// POST /api/users/signin
//
// Called once after the auth provider completes sign-in; creates the record
// with zero counters on first sign-in, refreshes the display name after.
func (h *ProfileHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	displayName := middleware.GetDisplayName(r)
	if r.Body != nil {
		var req struct {
			DisplayName string `json:"displayName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.DisplayName != "" {
			displayName = req.DisplayName
		}
	}

	u, err := h.service.EnsureUser(r.Context(), callerID, displayName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, u)
}

// HandleGetProfile returns a user's profile and counters
// GET /api/users/{userID}
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, u)
}

// handleServiceError converts user service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		handlers.WriteError(w, http.StatusNotFound, "UserNotFound", "The user was not found")
	case errors.Is(err, users.ErrInvalidUserID):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "A user ID is required")
	case errors.Is(err, docstore.ErrUnavailable):
		handlers.WriteError(w, http.StatusServiceUnavailable, "StoreUnavailable", "The data store is temporarily unavailable")
	default:
		log.Printf("user handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
