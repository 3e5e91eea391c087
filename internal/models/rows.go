package models

import "time"

// Joined read shapes. These carry no gorm associations so they can be used
// as Scan targets for hand-written joins.

type KidWithCount struct {
	ID              uint      `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `json:"name"`
	Grade           string    `json:"grade"`
	ShoeSize        string    `json:"shoe_size"`
	ParentName      string    `json:"parent_name"`
	ParentEmail     string    `json:"parent_email"`
	ParentPhone     string    `json:"parent_phone"`
	Notes           string    `json:"notes"`
	ActiveCheckouts int64     `json:"active_checkouts"`
}

// KidSummary is what anonymous callers see of the roster.
type KidSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ShoeSize string `json:"shoe_size"`
}

type CheckoutDetail struct {
	ID             uint       `json:"id"`
	EquipmentID    uint       `json:"equipment_id"`
	KidID          uint       `json:"kid_id"`
	CheckedOutAt   time.Time  `json:"checked_out_at"`
	ReturnedAt     *time.Time `json:"returned_at"`
	Notes          string     `json:"notes"`
	KidName        string     `json:"kid_name"`
	EquipmentType  string     `json:"equipment_type"`
	EquipmentSize  string     `json:"equipment_size"`
	EquipmentBrand string     `json:"equipment_brand"`
}

type RequestDetail struct {
	ID            uint       `json:"id"`
	KidID         uint       `json:"kid_id"`
	EquipmentType string     `json:"equipment_type"`
	Size          string     `json:"size"`
	Notes         string     `json:"notes"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	FulfilledAt   *time.Time `json:"fulfilled_at"`
	KidName       string     `json:"kid_name"`
	KidShoeSize   string     `json:"kid_shoe_size"`
}

type WaitlistDetail struct {
	ID            uint       `json:"id"`
	KidID         uint       `json:"kid_id"`
	EquipmentType string     `json:"equipment_type"`
	Size          string     `json:"size"`
	CreatedAt     time.Time  `json:"created_at"`
	NotifiedAt    *time.Time `json:"notified_at"`
	KidName       string     `json:"kid_name"`
	ParentEmail   string     `json:"parent_email"`
}

// OpenLoan is a checkout as shown to a parent on the lookup page.
type OpenLoan struct {
	ID             uint      `json:"id"`
	KidID          uint      `json:"-"`
	CheckedOutAt   time.Time `json:"checked_out_at"`
	EquipmentType  string    `json:"equipment_type"`
	EquipmentSize  string    `json:"equipment_size"`
	EquipmentBrand string    `json:"equipment_brand"`
}

type LookupResult struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	ShoeSize  string     `json:"shoe_size"`
	Checkouts []OpenLoan `json:"checkouts"`
}
