package handlers

import (
	"net/http"
	"strings"
)

// GET /api/auth
func (h *Handlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": h.gate.IsCoordinator(r)})
}

type loginRequest struct {
	Password string `json:"password"`
}

// POST /api/auth
func (h *Handlers) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "Authentication failed")
		return
	}
	if !h.gate.Login(w, in.Password) {
		writeError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DELETE /api/auth
func (h *Handlers) AuthLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /admin/login
func (h *Handlers) AdminLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, safeNext(r.URL.Query().Get("next")), "")
}

// POST /admin/login
func (h *Handlers) AdminLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	next := safeNext(r.FormValue("next"))
	if !h.gate.Login(w, r.FormValue("password")) {
		h.renderLogin(w, r, http.StatusUnauthorized, next, "Incorrect password")
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// POST /admin/logout
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(w)
	http.Redirect(w, r, "/?ok=logged_out", http.StatusSeeOther)
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, next, errMsg string) {
	h.render(w, r, status, "admin/login", map[string]any{
		"Title": "Coordinator login",
		"Next":  next,
		"Error": errMsg,
	})
}

// safeNext only allows local paths as a post-login redirect target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/checkouts"
	}
	return next
}
