package models

import (
	"time"

	"golang.org/x/text/cases"
)

// Equipment types
const (
	TypeShoes = "shoes"
	TypeBroom = "broom"
)

// Equipment conditions
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// Equipment status: available | checked_out | retired
const (
	StatusAvailable  = "available"
	StatusCheckedOut = "checked_out"
	StatusRetired    = "retired"
)

// Request status: pending | fulfilled
const (
	RequestPending   = "pending"
	RequestFulfilled = "fulfilled"
)

type Kid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"not null;index" json:"name"`
	NameSearch  string `gorm:"not null;default:'';index" json:"-"`
	Grade       string `json:"grade"`
	ShoeSize    string `json:"shoe_size"`
	ParentName  string `json:"parent_name"`
	ParentEmail string `json:"parent_email"`
	ParentPhone string `json:"parent_phone"`
	Notes       string `json:"notes"`

	Checkouts []Checkout         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Requests  []EquipmentRequest `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Waitlist  []WaitlistEntry    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// FoldName is the case-folded form of a name used for searching and sorting.
// SQLite's LOWER() only folds ASCII, so the folding happens here.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

type Equipment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Type      string `gorm:"not null;index:idx_equipment_type_status" json:"type"`
	Size      string `json:"size"`
	Brand     string `json:"brand"`
	Condition string `gorm:"not null;default:good" json:"condition"`
	Status    string `gorm:"not null;default:available;index:idx_equipment_type_status" json:"status"`
	Notes     string `json:"notes"`
	PhotoURL  string `json:"photo_url"`
}

func (Equipment) TableName() string { return "equipment" }

// Checkout is a loan of one equipment item to one kid. ReturnedAt is nil while open.
type Checkout struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EquipmentID  uint       `gorm:"not null" json:"equipment_id"`
	KidID        uint       `gorm:"not null" json:"kid_id"`
	CheckedOutAt time.Time  `gorm:"not null" json:"checked_out_at"`
	ReturnedAt   *time.Time `json:"returned_at"`
	Notes        string     `json:"notes"`

	Equipment Equipment `json:"-"`
}

type EquipmentRequest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	KidID         uint       `gorm:"not null;index" json:"kid_id"`
	EquipmentType string     `gorm:"not null" json:"equipment_type"`
	Size          string     `gorm:"not null" json:"size"`
	Notes         string     `json:"notes"`
	Status        string     `gorm:"not null;default:pending" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	FulfilledAt   *time.Time `json:"fulfilled_at"`
}

func (EquipmentRequest) TableName() string { return "equipment_requests" }

type WaitlistEntry struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	KidID         uint       `gorm:"not null" json:"kid_id"`
	EquipmentType string     `gorm:"not null" json:"equipment_type"`
	Size          string     `gorm:"not null" json:"size"`
	CreatedAt     time.Time  `json:"created_at"`
	NotifiedAt    *time.Time `json:"notified_at"`
}

func (WaitlistEntry) TableName() string { return "equipment_waitlist" }

// All lists every persisted model, in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Kid{},
		&Equipment{},
		&Checkout{},
		&EquipmentRequest{},
		&WaitlistEntry{},
	}
}
