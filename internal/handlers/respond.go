package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/broomstones/loaners/internal/services"
)

const maxBodyBytes = 1 << 20

// API error texts for the store's sentinel errors.
var notFoundText = map[error]string{
	services.ErrKidNotFound:       "Kid not found",
	services.ErrEquipmentNotFound: "Equipment not found",
	services.ErrCheckoutNotFound:  "Active checkout not found",
	services.ErrRequestNotFound:   "Request not found",
	services.ErrWaitlistNotFound:  "Waitlist entry not found",
}

var conflictText = map[error]string{
	services.ErrEquipmentNotAvailable: "Equipment is not available",
	services.ErrEquipmentCheckedOut:   "Equipment is checked out; return it first",
}

var errBadBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}

// errorStatus classifies err into a status code and a caller-safe message.
// ok is false for unexpected errors, whose cause must not reach the caller.
func errorStatus(err error) (status int, msg string, ok bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Msg, true
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, "Invalid request body", true
	}
	for sentinel, text := range notFoundText {
		if errors.Is(err, sentinel) {
			return http.StatusNotFound, text, true
		}
	}
	for sentinel, text := range conflictText {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, text, true
		}
	}
	return http.StatusInternalServerError, "", false
}

// fail writes the JSON error for err. Unexpected errors are logged with the
// request id and answered with the route's generic message.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, generic string) {
	status, msg, ok := errorStatus(err)
	if !ok {
		h.log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("route", r.Method+" "+r.URL.Path).
			Msg(generic)
		msg = generic
	}
	writeError(w, status, msg)
}
