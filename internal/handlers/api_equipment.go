package handlers

import (
	"net/http"

	"github.com/broomstones/loaners/internal/services"
)

// GET /api/equipment
func (h *Handlers) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListEquipment(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch equipment")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// POST /api/equipment
func (h *Handlers) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var in services.EquipmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to create equipment")
		return
	}
	eq, err := h.store.CreateEquipment(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Failed to create equipment")
		return
	}
	writeJSON(w, http.StatusCreated, eq)
}

// GET /api/equipment/{id}
func (h *Handlers) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrEquipmentNotFound, "")
		return
	}
	eq, err := h.store.GetEquipment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch equipment")
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

// PUT /api/equipment/{id}
func (h *Handlers) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrEquipmentNotFound, "")
		return
	}
	var in services.EquipmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to update equipment")
		return
	}
	eq, err := h.store.UpdateEquipment(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err, "Failed to update equipment")
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

// DELETE /api/equipment/{id}
func (h *Handlers) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrEquipmentNotFound, "")
		return
	}
	if err := h.store.DeleteEquipment(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete equipment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
