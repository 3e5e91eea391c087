package handlers

import (
	"net/http"
	"strings"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

var okText = map[string]string{
	"registered":  "Registered! A coordinator will match equipment soon.",
	"requested":   "Request sent. A coordinator will be in touch.",
	"waitlisted":  "You're on the waitlist. We'll email when it's available.",
	"waiting":     "Already on the waitlist for that size.",
	"notified":    "Marked as notified.",
	"checked_out": "Checked out.",
	"returned":    "Returned.",
	"logged_out":  "Logged out.",

	"kid_added":         "Kid added.",
	"kid_saved":         "Kid updated.",
	"kid_deleted":       "Kid deleted.",
	"equipment_added":   "Equipment added.",
	"equipment_saved":   "Equipment updated.",
	"retired":           "Equipment retired.",
	"equipment_deleted": "Equipment deleted.",
}

var errText = map[string]string{
	"not_found":     "That item no longer exists.",
	"not_available": "That equipment is not available.",
	"none_selected": "Select at least one checkout.",
	"partial":       "Some items could not be returned; the list shows what is still out.",
	"checked_out":   "That equipment is checked out; return it first.",
}

// MakeFlash reads ?error= / ?ok= and falls back to the handler-provided messages.
// Unknown keys are ignored so a crafted link cannot put arbitrary text on the page.
func MakeFlash(r *http.Request, errStr, msgStr string) *Flash {
	q := r.URL.Query()
	if t, ok := errText[strings.ToLower(strings.TrimSpace(q.Get("error")))]; ok {
		return &Flash{Kind: "error", Text: t}
	}
	if t, ok := okText[strings.ToLower(strings.TrimSpace(q.Get("ok")))]; ok {
		return &Flash{Kind: "ok", Text: t}
	}
	if errStr != "" {
		return &Flash{Kind: "error", Text: errStr}
	}
	if msgStr != "" {
		return &Flash{Kind: "ok", Text: msgStr}
	}
	return nil
}
