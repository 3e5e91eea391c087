package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newGate(t *testing.T, secure bool) *Gate {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("sheet-a"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewGate(h, securecookie.GenerateRandomKey(32), secure)
}

func loginCookie(t *testing.T, g *Gate) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.True(t, g.Login(rec, "sheet-a"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestLogin_WrongPasswordSetsNothing(t *testing.T) {
	g := newGate(t, false)
	for _, pw := range []string{"", "Sheet-A", "sheet-a "} {
		rec := httptest.NewRecorder()
		assert.False(t, g.Login(rec, pw), pw)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestLogin_CookieAttributes(t *testing.T) {
	c := loginCookie(t, newGate(t, true))
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	assert.False(t, loginCookie(t, newGate(t, false)).Secure)
}

func TestIsCoordinator(t *testing.T) {
	g := newGate(t, false)
	c := loginCookie(t, g)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, g.IsCoordinator(r))

	r.AddCookie(c)
	assert.True(t, g.IsCoordinator(r))

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: CookieName, Value: "ok"})
	assert.False(t, g.IsCoordinator(forged))

	// a cookie signed with another key is rejected
	other := newGate(t, false)
	foreign := httptest.NewRequest(http.MethodGet, "/", nil)
	foreign.AddCookie(loginCookie(t, other))
	assert.False(t, g.IsCoordinator(foreign))
}

func TestLogout_ExpiresCookie(t *testing.T) {
	g := newGate(t, false)
	rec := httptest.NewRecorder()
	g.Logout(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequireAPI(t *testing.T) {
	g := newGate(t, false)
	h := g.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkouts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	r := httptest.NewRequest(http.MethodGet, "/api/checkouts", nil)
	r.AddCookie(loginCookie(t, g))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequirePage_RedirectsWithNext(t *testing.T) {
	g := newGate(t, false)
	h := g.RequirePage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/match?size=5", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?next=%2Fmatch%3Fsize%3D5", rec.Header().Get("Location"))
}
