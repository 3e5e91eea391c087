package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/broomstones/loaners/internal/models"
	"github.com/broomstones/loaners/internal/services"
)

// GET /match?size=
func (h *Handlers) MatchPage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.MatchBoard(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to build match board")
		return
	}
	size := r.URL.Query().Get("size")
	h.render(w, r, http.StatusOK, "match", map[string]any{
		"Title": "Match",
		"Size":  size,
		"Sizes": services.Sizes(rows),
		"Rows":  services.FilterSize(rows, size),
	})
}

type waitlistGroup struct {
	Type    string
	Size    string
	Subject string
	Entries []models.WaitlistDetail
}

// groupWaitlist buckets entries by type+size, keeping the oldest-first order
// of the list both across and within groups.
func groupWaitlist(rows []models.WaitlistDetail) []waitlistGroup {
	idx := map[[2]string]int{}
	var out []waitlistGroup
	for _, e := range rows {
		key := [2]string{e.EquipmentType, e.Size}
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, waitlistGroup{
				Type:    e.EquipmentType,
				Size:    e.Size,
				Subject: "Equipment Available - " + e.EquipmentType + " Size " + e.Size,
			})
		}
		out[i].Entries = append(out[i].Entries, e)
	}
	return out
}

// GET /waitlist
func (h *Handlers) WaitlistPage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListWaitlist(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch waitlist")
		return
	}
	h.render(w, r, http.StatusOK, "waitlist", map[string]any{
		"Title":  "Waitlist",
		"Groups": groupWaitlist(rows),
	})
}

// POST /waitlist/{id}/notify
func (h *Handlers) WaitlistNotifySubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/waitlist?error=not_found", http.StatusSeeOther)
		return
	}
	if _, err := h.store.MarkWaitlistNotified(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrWaitlistNotFound) {
			http.Redirect(w, r, "/waitlist?error=not_found", http.StatusSeeOther)
			return
		}
		h.pageError(w, r, err, "Failed to update waitlist")
		return
	}
	http.Redirect(w, r, "/waitlist?ok=notified", http.StatusSeeOther)
}

// GET /checkouts[?equipment=id]
func (h *Handlers) CheckoutsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	active, err := h.store.ListCheckouts(ctx, true)
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch checkouts")
		return
	}
	kids, err := h.store.ListKids(ctx)
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch kids")
		return
	}
	items, err := h.store.ListEquipment(ctx)
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch equipment")
		return
	}
	available := make([]models.Equipment, 0, len(items))
	for _, e := range items {
		if e.Status == models.StatusAvailable {
			available = append(available, e)
		}
	}
	var pre uint
	if id, err := strconv.ParseUint(r.URL.Query().Get("equipment"), 10, 64); err == nil {
		pre = uint(id)
	}
	h.render(w, r, http.StatusOK, "checkouts", map[string]any{
		"Title":     "Checkouts",
		"Active":    active,
		"Kids":      services.KidSummaries(kids),
		"Available": available,
		"Preselect": pre,
	})
}

// POST /checkouts
func (h *Handlers) CheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	eqID, _ := strconv.ParseUint(r.FormValue("equipment_id"), 10, 64)
	kidID, _ := strconv.ParseUint(r.FormValue("kid_id"), 10, 64)
	_, err := h.checkout(r.Context(), services.CheckoutInput{
		EquipmentID: uint(eqID),
		KidID:       uint(kidID),
		Notes:       r.FormValue("notes"),
	})
	var verr *services.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/checkouts?ok=checked_out", http.StatusSeeOther)
	case errors.Is(err, services.ErrEquipmentNotAvailable):
		http.Redirect(w, r, "/checkouts?error=not_available", http.StatusSeeOther)
	case errors.Is(err, services.ErrEquipmentNotFound), errors.Is(err, services.ErrKidNotFound), errors.As(err, &verr):
		http.Redirect(w, r, "/checkouts?error=not_found", http.StatusSeeOther)
	default:
		h.pageError(w, r, err, "Failed to create checkout")
	}
}

// POST /checkouts/{id}/return
func (h *Handlers) ReturnSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/checkouts?error=not_found", http.StatusSeeOther)
		return
	}
	if _, err := h.returnOne(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrCheckoutNotFound) {
			http.Redirect(w, r, "/checkouts?error=not_found", http.StatusSeeOther)
			return
		}
		h.pageError(w, r, err, "Failed to return equipment")
		return
	}
	http.Redirect(w, r, "/checkouts?ok=returned", http.StatusSeeOther)
}

// POST /checkouts/return (form field "id", repeated)
func (h *Handlers) ReturnSelectedSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var ids []uint
	for _, v := range r.Form["id"] {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	if len(ids) == 0 {
		http.Redirect(w, r, "/checkouts?error=none_selected", http.StatusSeeOther)
		return
	}
	failed := 0
	for _, o := range h.store.ReturnMany(r.Context(), ids) {
		if o.Err != nil {
			failed++
			if _, _, known := errorStatus(o.Err); !known {
				h.log.Error().Err(o.Err).Uint("checkout_id", o.ID).Msg("bulk return")
			}
			continue
		}
		h.metrics.Returns.Inc()
	}
	if failed > 0 {
		http.Redirect(w, r, "/checkouts?error=partial", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/checkouts?ok=returned", http.StatusSeeOther)
}

// GET /print?view=checkouts|inventory
func (h *Handlers) PrintPage(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	data := map[string]any{"Title": "Print", "Now": time.Now()}
	if view == "inventory" {
		items, err := h.store.ListEquipment(r.Context())
		if err != nil {
			h.pageError(w, r, err, "Failed to fetch equipment")
			return
		}
		data["View"] = "inventory"
		data["Equipment"] = items
	} else {
		active, err := h.store.ListCheckouts(r.Context(), true)
		if err != nil {
			h.pageError(w, r, err, "Failed to fetch checkouts")
			return
		}
		data["View"] = "checkouts"
		data["Checkouts"] = active
	}
	h.render(w, r, http.StatusOK, "print", data)
}
