package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/broomstones/loaners/internal/models"
	"github.com/broomstones/loaners/internal/services"
)

func kidForm(r *http.Request) services.KidInput {
	return services.KidInput{
		Name:        r.FormValue("name"),
		Grade:       r.FormValue("grade"),
		ShoeSize:    r.FormValue("shoe_size"),
		ParentName:  r.FormValue("parent_name"),
		ParentEmail: r.FormValue("parent_email"),
		ParentPhone: r.FormValue("parent_phone"),
		Notes:       r.FormValue("notes"),
	}
}

func equipmentForm(r *http.Request) services.EquipmentInput {
	return services.EquipmentInput{
		Type:      r.FormValue("type"),
		Size:      r.FormValue("size"),
		Brand:     r.FormValue("brand"),
		Condition: r.FormValue("condition"),
		Status:    r.FormValue("status"),
		Notes:     r.FormValue("notes"),
		PhotoURL:  r.FormValue("photo_url"),
	}
}

// editParam reads ?edit=<id>; zero means the add form.
func editParam(r *http.Request) uint {
	id, err := strconv.ParseUint(r.URL.Query().Get("edit"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// formFailed answers a failed form post: not-found goes back to the list with
// a flash key, validation and conflicts re-render the form with the message.
func (h *Handlers) formFailed(w http.ResponseWriter, r *http.Request, err error, list, generic string, rerender func(status int, f *Flash)) {
	status, msg, known := errorStatus(err)
	switch {
	case !known:
		h.pageError(w, r, err, generic)
	case status == http.StatusNotFound:
		http.Redirect(w, r, list+"?error=not_found", http.StatusSeeOther)
	case rerender == nil:
		h.pageError(w, r, err, generic)
	default:
		rerender(status, &Flash{Kind: "error", Text: msg})
	}
}

// GET /kids?q=&edit=
func (h *Handlers) KidsPage(w http.ResponseWriter, r *http.Request) {
	var form services.KidInput
	editID := editParam(r)
	if editID != 0 {
		kid, err := h.store.GetKid(r.Context(), editID)
		if err != nil {
			h.formFailed(w, r, err, "/kids", "Failed to fetch kid", nil)
			return
		}
		form = services.KidInput{
			Name:        kid.Name,
			Grade:       kid.Grade,
			ShoeSize:    kid.ShoeSize,
			ParentName:  kid.ParentName,
			ParentEmail: kid.ParentEmail,
			ParentPhone: kid.ParentPhone,
			Notes:       kid.Notes,
		}
	}
	h.kidsPage(w, r, http.StatusOK, form, editID, nil)
}

func (h *Handlers) kidsPage(w http.ResponseWriter, r *http.Request, status int, form services.KidInput, editID uint, flash *Flash) {
	kids, err := h.store.ListKids(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch kids")
		return
	}
	q := r.URL.Query().Get("q")
	data := map[string]any{
		"Title":  "Kids",
		"Q":      q,
		"Total":  len(kids),
		"Kids":   services.FilterKids(kids, q),
		"Form":   form,
		"EditID": editID,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, r, status, "kids", data)
}

// POST /kids
func (h *Handlers) KidCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := kidForm(r)
	if _, err := h.store.CreateKid(r.Context(), in); err != nil {
		h.formFailed(w, r, err, "/kids", "Failed to create kid", func(status int, f *Flash) {
			h.kidsPage(w, r, status, in, 0, f)
		})
		return
	}
	http.Redirect(w, r, "/kids?ok=kid_added", http.StatusSeeOther)
}

// POST /kids/{id}
func (h *Handlers) KidUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/kids?error=not_found", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := kidForm(r)
	if _, err := h.store.UpdateKid(r.Context(), id, in); err != nil {
		h.formFailed(w, r, err, "/kids", "Failed to update kid", func(status int, f *Flash) {
			h.kidsPage(w, r, status, in, id, f)
		})
		return
	}
	http.Redirect(w, r, "/kids?ok=kid_saved", http.StatusSeeOther)
}

// POST /kids/{id}/delete
func (h *Handlers) KidDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/kids?error=not_found", http.StatusSeeOther)
		return
	}
	if err := h.store.DeleteKid(r.Context(), id); err != nil {
		h.formFailed(w, r, err, "/kids", "Failed to delete kid", nil)
		return
	}
	http.Redirect(w, r, "/kids?ok=kid_deleted", http.StatusSeeOther)
}

// GET /equipment?type=&status=&size=&edit=
func (h *Handlers) EquipmentPage(w http.ResponseWriter, r *http.Request) {
	form := services.EquipmentInput{Type: models.TypeShoes, Condition: models.ConditionGood}
	editID := editParam(r)
	if editID != 0 {
		eq, err := h.store.GetEquipment(r.Context(), editID)
		if err != nil {
			h.formFailed(w, r, err, "/equipment", "Failed to fetch equipment", nil)
			return
		}
		form = services.EquipmentInput{
			Type:      eq.Type,
			Size:      eq.Size,
			Brand:     eq.Brand,
			Condition: eq.Condition,
			Status:    eq.Status,
			Notes:     eq.Notes,
			PhotoURL:  eq.PhotoURL,
		}
	}
	h.equipmentPage(w, r, http.StatusOK, form, editID, nil)
}

func (h *Handlers) equipmentPage(w http.ResponseWriter, r *http.Request, status int, form services.EquipmentInput, editID uint, flash *Flash) {
	items, err := h.store.ListEquipment(r.Context())
	if err != nil {
		h.pageError(w, r, err, "Failed to fetch equipment")
		return
	}
	q := r.URL.Query()
	filter := services.EquipmentFilter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
		Size:   q.Get("size"),
	}
	data := map[string]any{
		"Title":  "Equipment",
		"Filter": filter,
		"Sizes":  services.EquipmentSizes(items),
		"Total":  len(items),
		"Items":  services.FilterEquipment(items, filter),
		"Form":   form,
		"EditID": editID,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, r, status, "equipment", data)
}

// POST /equipment
func (h *Handlers) EquipmentCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := equipmentForm(r)
	if _, err := h.store.CreateEquipment(r.Context(), in); err != nil {
		h.formFailed(w, r, err, "/equipment", "Failed to create equipment", func(status int, f *Flash) {
			h.equipmentPage(w, r, status, in, 0, f)
		})
		return
	}
	http.Redirect(w, r, "/equipment?ok=equipment_added", http.StatusSeeOther)
}

// POST /equipment/{id}
// Status edits that contradict the loan record come back as a flash on the form.
func (h *Handlers) EquipmentUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/equipment?error=not_found", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := equipmentForm(r)
	if _, err := h.store.UpdateEquipment(r.Context(), id, in); err != nil {
		h.formFailed(w, r, err, "/equipment", "Failed to update equipment", func(status int, f *Flash) {
			h.equipmentPage(w, r, status, in, id, f)
		})
		return
	}
	http.Redirect(w, r, "/equipment?ok=equipment_saved", http.StatusSeeOther)
}

// POST /equipment/{id}/retire
func (h *Handlers) EquipmentRetireSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/equipment?error=not_found", http.StatusSeeOther)
		return
	}
	if _, err := h.store.RetireEquipment(r.Context(), id); err != nil {
		h.formFailed(w, r, err, "/equipment", "Failed to retire equipment", nil)
		return
	}
	http.Redirect(w, r, "/equipment?ok=retired", http.StatusSeeOther)
}

// POST /equipment/{id}/delete
func (h *Handlers) EquipmentDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, "/equipment?error=not_found", http.StatusSeeOther)
		return
	}
	err := h.store.DeleteEquipment(r.Context(), id)
	switch {
	case err == nil:
		http.Redirect(w, r, "/equipment?ok=equipment_deleted", http.StatusSeeOther)
	case errors.Is(err, services.ErrEquipmentCheckedOut):
		http.Redirect(w, r, "/equipment?error=checked_out", http.StatusSeeOther)
	default:
		h.formFailed(w, r, err, "/equipment", "Failed to delete equipment", nil)
	}
}
