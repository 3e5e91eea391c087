package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/broomstones/loaners/internal/services"
)

// render fills the keys every page expects and writes the page.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	data["Coordinator"] = h.gate.IsCoordinator(r)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = MakeFlash(r, "", "")
	}
	if err := h.views.Render(w, status, name, data); err != nil {
		h.log.Error().Err(err).Str("page", name).Msg("render")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *Handlers) pageError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.log.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("route", r.Method+" "+r.URL.Path).
		Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// GET /
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stats(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch stats")
		return
	}
	h.render(w, r, http.StatusOK, "home", map[string]any{
		"Title": "Dashboard",
		"Stats": st,
	})
}

// GET /lookup?q=
func (h *Handlers) LookupPage(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	res, err := h.store.Lookup(r.Context(), q)
	if err != nil {
		h.pageError(w, r, err, "Failed to search")
		return
	}
	h.render(w, r, http.StatusOK, "lookup", map[string]any{
		"Title":    "Lookup",
		"Q":        q,
		"Searched": q != "",
		"Results":  res,
	})
}

// GET /register
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", map[string]any{
		"Title": "Register",
		"Form":  services.KidInput{},
	})
}

// POST /register
func (h *Handlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := services.KidInput{
		Name:        r.FormValue("name"),
		Grade:       r.FormValue("grade"),
		ShoeSize:    r.FormValue("shoe_size"),
		ParentName:  r.FormValue("parent_name"),
		ParentEmail: r.FormValue("parent_email"),
		ParentPhone: r.FormValue("parent_phone"),
		Notes:       r.FormValue("notes"),
	}
	if _, err := h.store.CreateKid(r.Context(), in); err != nil {
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			h.pageError(w, r, err, "Failed to create kid")
			return
		}
		h.render(w, r, http.StatusBadRequest, "register", map[string]any{
			"Title": "Register",
			"Form":  in,
			"Flash": &Flash{Kind: "error", Text: verr.Msg},
		})
		return
	}
	http.Redirect(w, r, "/register?ok=registered", http.StatusSeeOther)
}

// GET /request
func (h *Handlers) RequestForm(w http.ResponseWriter, r *http.Request) {
	form := services.RequestInput{EquipmentType: "shoes"}
	if id, err := strconv.ParseUint(r.URL.Query().Get("kid"), 10, 64); err == nil {
		form.KidID = uint(id)
	}
	h.requestPage(w, r, http.StatusOK, form, nil)
}

// POST /request
// The same form files a request or joins the waitlist, depending on which
// button was pressed.
func (h *Handlers) RequestSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	kidID, _ := strconv.ParseUint(r.FormValue("kid_id"), 10, 64)
	in := services.RequestInput{
		KidID:         uint(kidID),
		EquipmentType: r.FormValue("equipment_type"),
		Size:          r.FormValue("size"),
		Notes:         r.FormValue("notes"),
	}

	ok := "requested"
	var err error
	if r.FormValue("action") == "waitlist" {
		var created bool
		_, created, err = h.joinWaitlist(r.Context(), in)
		ok = "waitlisted"
		if !created {
			ok = "waiting"
		}
	} else {
		_, err = h.store.CreateRequest(r.Context(), in)
	}
	if err != nil {
		status, msg, known := errorStatus(err)
		if !known {
			h.pageError(w, r, err, "Failed to create request")
			return
		}
		h.requestPage(w, r, status, in, &Flash{Kind: "error", Text: msg})
		return
	}
	http.Redirect(w, r, "/request?ok="+ok, http.StatusSeeOther)
}

func (h *Handlers) requestPage(w http.ResponseWriter, r *http.Request, status int, form services.RequestInput, flash *Flash) {
	kids, err := h.store.ListKids(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch kids")
		return
	}
	st, err := h.store.Stats(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch stats")
		return
	}
	data := map[string]any{
		"Title":           "Request equipment",
		"Form":            form,
		"Kids":            services.KidSummaries(kids),
		"AvailableShoes":  st.AvailableShoesBySize,
		"AvailableBrooms": st.AvailableBroomsBySize,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, r, status, "request", data)
}
