package handlers

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/broomstones/loaners/internal/services"
)

const qrSize = 256

// GET /qr/lookup.png
// A poster code that opens the public lookup page.
func (h *Handlers) LookupQR(w http.ResponseWriter, r *http.Request) {
	h.writeQR(w, r, h.publicURL+"/lookup")
}

// GET /api/equipment/{id}/qr.png
// The tag printed on an item; scanning it opens the checkout form with the
// item preselected.
func (h *Handlers) EquipmentQR(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, services.ErrEquipmentNotFound, "")
		return
	}
	if _, err := h.store.GetEquipment(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to fetch equipment")
		return
	}
	h.writeQR(w, r, h.publicURL+"/checkouts?equipment="+strconv.FormatUint(uint64(id), 10))
}

func (h *Handlers) writeQR(w http.ResponseWriter, r *http.Request, url string) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("qr encode")
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
