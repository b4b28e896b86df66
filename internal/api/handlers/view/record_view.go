package view

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/irfan106/its-your-story/internal/core/views"
)

// RecordViewHandler accepts fire-and-forget view events
type RecordViewHandler struct {
	service views.Service
}

// NewRecordViewHandler creates a new record view handler
func NewRecordViewHandler(service views.Service) *RecordViewHandler {
	return &RecordViewHandler{service: service}
}

// HandleRecordView records one view on a post
// POST /api/posts/{postID}/views
//
// Always responds 202: views are best-effort and a store outage must never
// surface to the page render that sent the beacon.
func (h *RecordViewHandler) HandleRecordView(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	h.service.RecordView(r.Context(), postID)
	w.WriteHeader(http.StatusAccepted)
}
