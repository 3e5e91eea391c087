package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broomstones/loaners/internal/models"
	"github.com/broomstones/loaners/internal/services"
)

func TestMakeFlash(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/checkouts?ok=returned", nil)
	assert.Equal(t, &Flash{Kind: "ok", Text: "Returned."}, MakeFlash(r, "", ""))

	r = httptest.NewRequest(http.MethodGet, "/checkouts?error=NOT_AVAILABLE&ok=returned", nil)
	assert.Equal(t, "error", MakeFlash(r, "", "").Kind)

	// unknown keys never echo into the page
	r = httptest.NewRequest(http.MethodGet, "/?error=<script>", nil)
	assert.Nil(t, MakeFlash(r, "", ""))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, &Flash{Kind: "error", Text: "boom"}, MakeFlash(r, "boom", "fine"))
	assert.Equal(t, &Flash{Kind: "ok", Text: "fine"}, MakeFlash(r, "", "fine"))
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{&services.ValidationError{Msg: "Name is required"}, 400, "Name is required"},
		{errBadBody, 400, "Invalid request body"},
		{services.ErrKidNotFound, 404, "Kid not found"},
		{fmt.Errorf("tx: %w", services.ErrCheckoutNotFound), 404, "Active checkout not found"},
		{services.ErrEquipmentNotAvailable, 400, "Equipment is not available"},
		{services.ErrEquipmentCheckedOut, 400, "Equipment is checked out; return it first"},
	}
	for _, tc := range cases {
		status, msg, ok := errorStatus(tc.err)
		assert.True(t, ok, tc.err)
		assert.Equal(t, tc.status, status, tc.err)
		assert.Equal(t, tc.msg, msg, tc.err)
	}

	status, msg, ok := errorStatus(fmt.Errorf("disk I/O error"))
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, msg)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/match?size=5", safeNext("/match?size=5"))
	for _, bad := range []string{"", "https://evil.example", "//evil.example", `/\evil.example`, "match"} {
		assert.Equal(t, "/checkouts", safeNext(bad), bad)
	}
}

func TestGroupWaitlist(t *testing.T) {
	now := time.Now()
	rows := []models.WaitlistDetail{
		{ID: 1, EquipmentType: "shoes", Size: "5", KidName: "Ava", CreatedAt: now},
		{ID: 2, EquipmentType: "broom", Size: "junior", KidName: "Ben", CreatedAt: now},
		{ID: 3, EquipmentType: "shoes", Size: "5", KidName: "Cal", CreatedAt: now},
	}
	groups := groupWaitlist(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "Equipment Available - shoes Size 5", groups[0].Subject)
	require.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "Ava", groups[0].Entries[0].KidName)
	assert.Equal(t, "Cal", groups[0].Entries[1].KidName)
	assert.Equal(t, "junior", groups[1].Size)

	assert.Empty(t, groupWaitlist(nil))
}

func TestDecodeJSON(t *testing.T) {
	var in services.CheckoutInput

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"equipment_id":1,"kid_id":2}`))
	require.NoError(t, decodeJSON(httptest.NewRecorder(), r, &in))
	assert.Equal(t, uint(2), in.KidID)

	for _, body := range []string{``, `{`, `{"equipment_id":"x"}`, `{"bogus":1}`, `{} {}`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.ErrorIs(t, decodeJSON(httptest.NewRecorder(), r, &in), errBadBody, body)
	}
}
