// Package auth implements the single shared-password coordinator gate.
package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "broomstones_auth"

	maxAge          = 7 * 24 * 60 * 60
	roleCoordinator = "coordinator"
)

type session struct {
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
}

// Gate issues and checks the signed coordinator cookie.
type Gate struct {
	hash   []byte
	codec  *securecookie.SecureCookie
	secure bool
}

// NewGate takes the bcrypt hash of the coordinator password and the HMAC key
// used to sign cookies. secure marks cookies Secure (production).
func NewGate(passwordHash, hashKey []byte, secure bool) *Gate {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(maxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Gate{hash: passwordHash, codec: codec, secure: secure}
}

// Login sets the session cookie when password matches. It reports whether it did.
func (g *Gate) Login(w http.ResponseWriter, password string) bool {
	if password == "" || bcrypt.CompareHashAndPassword(g.hash, []byte(password)) != nil {
		return false
	}
	val, err := g.codec.Encode(CookieName, session{Role: roleCoordinator, IssuedAt: time.Now().Unix()})
	if err != nil {
		return false
	}
	http.SetCookie(w, g.cookie(val, maxAge))
	return true
}

func (g *Gate) Logout(w http.ResponseWriter) {
	http.SetCookie(w, g.cookie("", -1))
}

// IsCoordinator reports whether r carries a valid, unexpired session cookie.
func (g *Gate) IsCoordinator(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	var s session
	if err := g.codec.Decode(CookieName, c.Value, &s); err != nil {
		return false
	}
	return s.Role == roleCoordinator
}

// RequireAPI rejects anonymous API calls with 401 and a JSON error body.
func (g *Gate) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsCoordinator(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage sends anonymous visitors to the login page, remembering where they were going.
func (g *Gate) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsCoordinator(r) {
			http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) cookie(val string, age int) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    val,
		Path:     "/",
		MaxAge:   age,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if age < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
