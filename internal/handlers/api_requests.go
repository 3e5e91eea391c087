package handlers

import (
	"context"
	"net/http"

	"github.com/broomstones/loaners/internal/models"
	"github.com/broomstones/loaners/internal/services"
)

// GET /api/requests
func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListRequests(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch requests")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// POST /api/requests
func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var in services.RequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to create request")
		return
	}
	req, err := h.store.CreateRequest(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Failed to create request")
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// POST /api/requests/{id}/fulfill
func (h *Handlers) FulfillRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrRequestNotFound, "")
		return
	}
	req, err := h.store.FulfillRequest(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to update request")
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// GET /api/waitlist
func (h *Handlers) ListWaitlist(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListWaitlist(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch waitlist")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// POST /api/waitlist
// A repeat submission while still waiting answers 200 "Already on waitlist".
func (h *Handlers) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var in services.RequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to add to waitlist")
		return
	}
	entry, created, err := h.joinWaitlist(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Failed to add to waitlist")
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already on waitlist"})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// POST /api/waitlist/{id}/notify
func (h *Handlers) NotifyWaitlist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrWaitlistNotFound, "")
		return
	}
	entry, err := h.store.MarkWaitlistNotified(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to update waitlist")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handlers) joinWaitlist(ctx context.Context, in services.RequestInput) (*models.WaitlistEntry, bool, error) {
	entry, created, err := h.store.JoinWaitlist(ctx, in)
	if err != nil {
		return nil, false, err
	}
	result := "existing"
	if created {
		result = "added"
	}
	h.metrics.WaitlistJoins.WithLabelValues(result).Inc()
	return entry, created, nil
}
