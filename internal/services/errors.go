package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrKidNotFound       = errors.New("kid not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrCheckoutNotFound  = errors.New("active checkout not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrWaitlistNotFound  = errors.New("waitlist entry not found")

	// state conflicts
	ErrEquipmentNotAvailable = errors.New("equipment is not available")
	ErrEquipmentCheckedOut   = errors.New("equipment is checked out")
)

// ValidationError reports caller input that was rejected before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// notFound maps gorm's record-not-found onto the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
