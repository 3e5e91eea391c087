package services

import (
	"net/mail"
	"strings"
)

// NormEmail lowercases and validates an optional address. Empty is accepted.
func NormEmail(s string) (string, bool) {
	e := strings.TrimSpace(strings.ToLower(s))
	if e == "" {
		return "", true
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return e, false
	}
	return e, true
}
