// Package handlers implements the JSON API and the server-rendered pages.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/broomstones/loaners/internal/auth"
	"github.com/broomstones/loaners/internal/metrics"
	"github.com/broomstones/loaners/internal/services"
	"github.com/broomstones/loaners/internal/views"
)

// Handlers carries every dependency a route needs; it is built once in main.
type Handlers struct {
	store     *services.Store
	gate      *auth.Gate
	metrics   *metrics.Metrics
	log       zerolog.Logger
	views     *views.Views
	publicURL string
}

func New(store *services.Store, gate *auth.Gate, m *metrics.Metrics, log zerolog.Logger, v *views.Views, publicURL string) *Handlers {
	return &Handlers{
		store:     store,
		gate:      gate,
		metrics:   m,
		log:       log,
		views:     v,
		publicURL: publicURL,
	}
}

// GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// idParam parses the {id} URL segment. Anything that is not a positive
// integer cannot name a row, so it is reported as the resource's not-found.
func idParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
