package handlers

import (
	"net/http"

	"github.com/broomstones/loaners/internal/services"
)

// GET /api/kids
// Anonymous callers (the public request form) only get id, name and shoe size.
func (h *Handlers) ListKids(w http.ResponseWriter, r *http.Request) {
	kids, err := h.store.ListKids(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch kids")
		return
	}
	if !h.gate.IsCoordinator(r) {
		writeJSON(w, http.StatusOK, services.KidSummaries(kids))
		return
	}
	writeJSON(w, http.StatusOK, kids)
}

// POST /api/kids
func (h *Handlers) CreateKid(w http.ResponseWriter, r *http.Request) {
	var in services.KidInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to create kid")
		return
	}
	kid, err := h.store.CreateKid(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Failed to create kid")
		return
	}
	writeJSON(w, http.StatusCreated, kid)
}

// GET /api/kids/{id}
func (h *Handlers) GetKid(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrKidNotFound, "")
		return
	}
	kid, err := h.store.GetKid(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch kid")
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

// PUT /api/kids/{id}
func (h *Handlers) UpdateKid(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrKidNotFound, "")
		return
	}
	var in services.KidInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to update kid")
		return
	}
	kid, err := h.store.UpdateKid(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err, "Failed to update kid")
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

// DELETE /api/kids/{id}
func (h *Handlers) DeleteKid(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrKidNotFound, "")
		return
	}
	if err := h.store.DeleteKid(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete kid")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
