package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/broomstones/loaners/internal/models"
	"github.com/broomstones/loaners/internal/services"
)

// GET /api/checkouts[?active=true]
func (h *Handlers) ListCheckouts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListCheckouts(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		h.fail(w, r, err, "Failed to fetch checkouts")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// POST /api/checkouts
func (h *Handlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to create checkout")
		return
	}
	co, err := h.checkout(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Failed to create checkout")
		return
	}
	writeJSON(w, http.StatusCreated, co)
}

// POST /api/checkouts/{id}/return
func (h *Handlers) ReturnCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrCheckoutNotFound, "")
		return
	}
	co, err := h.returnOne(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to return equipment")
		return
	}
	writeJSON(w, http.StatusOK, co)
}

type bulkReturnRequest struct {
	IDs []uint `json:"ids"`
}

type bulkReturnResult struct {
	ID       uint             `json:"id"`
	Checkout *models.Checkout `json:"checkout,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// POST /api/checkouts/return
// Each id is returned on its own; failures do not undo the successes. The
// response lists one result per id in request order.
func (h *Handlers) ReturnCheckouts(w http.ResponseWriter, r *http.Request) {
	var in bulkReturnRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Failed to return equipment")
		return
	}
	if len(in.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "No checkouts selected")
		return
	}

	outcomes := h.store.ReturnMany(r.Context(), in.IDs)
	results := make([]bulkReturnResult, 0, len(outcomes))
	returned := 0
	for _, o := range outcomes {
		res := bulkReturnResult{ID: o.ID, Checkout: o.Checkout}
		if o.Err != nil {
			status, msg, ok := errorStatus(o.Err)
			if !ok {
				h.log.Error().Err(o.Err).Uint("checkout_id", o.ID).Int("status", status).Msg("bulk return")
				msg = "Failed to return equipment"
			}
			res.Error = msg
		} else {
			returned++
			h.metrics.Returns.Inc()
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"returned": returned,
		"failed":   len(results) - returned,
		"results":  results,
	})
}

// checkout and returnOne are shared by the API and the checkouts page so the
// counters move the same way from either.
func (h *Handlers) checkout(ctx context.Context, in services.CheckoutInput) (*models.Checkout, error) {
	co, err := h.store.Checkout(ctx, in)
	switch {
	case err == nil:
		h.metrics.Checkouts.Inc()
	case errors.Is(err, services.ErrEquipmentNotAvailable):
		h.metrics.CheckoutConflicts.Inc()
	}
	return co, err
}

func (h *Handlers) returnOne(ctx context.Context, id uint) (*models.Checkout, error) {
	co, err := h.store.ReturnCheckout(ctx, id)
	if err == nil {
		h.metrics.Returns.Inc()
	}
	return co, err
}
