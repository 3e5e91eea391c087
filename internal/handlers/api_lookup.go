package handlers

import "net/http"

// GET /api/lookup?q=
func (h *Handlers) Lookup(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.Lookup(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err, "Failed to search")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch stats")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, st)
}
