package services

import (
	"net/url"
	"strings"

	"github.com/broomstones/loaners/internal/models"
)

// Request bodies. Each has a normalize method that trims, applies defaults and
// validates before any store access.

type KidInput struct {
	Name        string `json:"name"`
	Grade       string `json:"grade"`
	ShoeSize    string `json:"shoe_size"`
	ParentName  string `json:"parent_name"`
	ParentEmail string `json:"parent_email"`
	ParentPhone string `json:"parent_phone"`
	Notes       string `json:"notes"`
}

func (in *KidInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Grade = strings.TrimSpace(in.Grade)
	in.ShoeSize = strings.TrimSpace(in.ShoeSize)
	in.ParentName = strings.TrimSpace(in.ParentName)
	in.ParentPhone = strings.TrimSpace(in.ParentPhone)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Name == "" {
		return invalid("Name is required")
	}
	email, ok := NormEmail(in.ParentEmail)
	if !ok {
		return invalid("Invalid parent email address")
	}
	in.ParentEmail = email
	return nil
}

func (in KidInput) apply(k *models.Kid) {
	k.Name = in.Name
	k.NameSearch = models.FoldName(in.Name)
	k.Grade = in.Grade
	k.ShoeSize = in.ShoeSize
	k.ParentName = in.ParentName
	k.ParentEmail = in.ParentEmail
	k.ParentPhone = in.ParentPhone
	k.Notes = in.Notes
}

type EquipmentInput struct {
	Type      string `json:"type"`
	Size      string `json:"size"`
	Brand     string `json:"brand"`
	Condition string `json:"condition"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	PhotoURL  string `json:"photo_url"`
}

func (in *EquipmentInput) normalize() error {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Size = strings.TrimSpace(in.Size)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Condition = strings.ToLower(strings.TrimSpace(in.Condition))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Notes = strings.TrimSpace(in.Notes)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)

	if !validType(in.Type) {
		return invalid("Type must be shoes or broom")
	}
	if in.Condition == "" {
		in.Condition = models.ConditionGood
	}
	switch in.Condition {
	case models.ConditionExcellent, models.ConditionGood, models.ConditionFair, models.ConditionPoor:
	default:
		return invalid("Condition must be excellent, good, fair or poor")
	}
	switch in.Status {
	case "", models.StatusAvailable, models.StatusCheckedOut, models.StatusRetired:
	default:
		return invalid("Status must be available, checked_out or retired")
	}
	if in.PhotoURL != "" {
		u, err := url.Parse(in.PhotoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("Photo URL must be an http(s) URL")
		}
	}
	return nil
}

type CheckoutInput struct {
	EquipmentID uint   `json:"equipment_id"`
	KidID       uint   `json:"kid_id"`
	Notes       string `json:"notes"`
}

func (in *CheckoutInput) normalize() error {
	in.Notes = strings.TrimSpace(in.Notes)
	if in.EquipmentID == 0 || in.KidID == 0 {
		return invalid("Equipment and kid are required")
	}
	return nil
}

// RequestInput is shared by equipment requests and waitlist joins.
type RequestInput struct {
	KidID         uint   `json:"kid_id"`
	EquipmentType string `json:"equipment_type"`
	Size          string `json:"size"`
	Notes         string `json:"notes"`
}

func (in *RequestInput) normalize() error {
	in.EquipmentType = strings.ToLower(strings.TrimSpace(in.EquipmentType))
	in.Size = strings.TrimSpace(in.Size)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.KidID == 0 || in.EquipmentType == "" || in.Size == "" {
		return invalid("Kid, equipment type, and size are required")
	}
	if !validType(in.EquipmentType) {
		return invalid("Equipment type must be shoes or broom")
	}
	return nil
}

func validType(t string) bool {
	return t == models.TypeShoes || t == models.TypeBroom
}
