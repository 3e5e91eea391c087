package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/models"
)

// ListEquipment returns every item, newest first.
func (s *Store) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	items := []models.Equipment{}
	if err := s.conn(ctx).Order("created_at desc, id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	var eq models.Equipment
	if err := s.conn(ctx).First(&eq, id).Error; err != nil {
		return nil, notFound(err, ErrEquipmentNotFound)
	}
	return &eq, nil
}

// CreateEquipment always stores the item as available, whatever status was sent.
func (s *Store) CreateEquipment(ctx context.Context, in EquipmentInput) (*models.Equipment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	eq := models.Equipment{
		Type:      in.Type,
		Size:      in.Size,
		Brand:     in.Brand,
		Condition: in.Condition,
		Status:    models.StatusAvailable,
		Notes:     in.Notes,
		PhotoURL:  in.PhotoURL,
	}
	if err := s.conn(ctx).Create(&eq).Error; err != nil {
		return nil, err
	}
	return &eq, nil
}

// UpdateEquipment replaces the item's fields. An explicit status is persisted
// when it agrees with the loan record: checked_out needs an open checkout,
// available needs none, retired is always allowed. An empty status keeps the
// current one.
func (s *Store) UpdateEquipment(ctx context.Context, id uint, in EquipmentInput) (*models.Equipment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var eq models.Equipment
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&eq, id).Error; err != nil {
			return notFound(err, ErrEquipmentNotFound)
		}
		if in.Status != "" && in.Status != eq.Status {
			open, err := openCheckoutCount(tx, id)
			if err != nil {
				return err
			}
			switch {
			case in.Status == models.StatusCheckedOut && open == 0:
				return invalid("Use a checkout to mark equipment checked out")
			case in.Status == models.StatusAvailable && open > 0:
				return invalid("Equipment has an open checkout; return it instead")
			}
			eq.Status = in.Status
		}
		eq.Type = in.Type
		eq.Size = in.Size
		eq.Brand = in.Brand
		eq.Condition = in.Condition
		eq.Notes = in.Notes
		eq.PhotoURL = in.PhotoURL
		return tx.Save(&eq).Error
	})
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// DeleteEquipment refuses while the item is out on loan. Closed loan history
// for the item is removed with it.
func (s *Store) DeleteEquipment(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var eq models.Equipment
		if err := tx.Select("id").First(&eq, id).Error; err != nil {
			return notFound(err, ErrEquipmentNotFound)
		}
		open, err := openCheckoutCount(tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrEquipmentCheckedOut
		}
		if err := tx.Where("equipment_id = ?", id).Delete(&models.Checkout{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Equipment{}, id).Error
	})
}

// RetireEquipment takes an item out of circulation. An open loan on it stays
// open and closes normally on return.
func (s *Store) RetireEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	var eq models.Equipment
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&eq, id).Error; err != nil {
			return notFound(err, ErrEquipmentNotFound)
		}
		eq.Status = models.StatusRetired
		return tx.Model(&eq).Update("status", models.StatusRetired).Error
	})
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// EquipmentFilter narrows the inventory list. Empty fields match everything.
type EquipmentFilter struct {
	Type   string
	Status string
	Size   string
}

func FilterEquipment(items []models.Equipment, f EquipmentFilter) []models.Equipment {
	out := make([]models.Equipment, 0, len(items))
	for _, e := range items {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Size != "" && e.Size != f.Size {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EquipmentSizes lists the distinct non-empty sizes in size order.
func EquipmentSizes(items []models.Equipment) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range items {
		if e.Size != "" && !seen[e.Size] {
			seen[e.Size] = true
			out = append(out, e.Size)
		}
	}
	sortBySize(out, func(s string) string { return s })
	return out
}

func openCheckoutCount(tx *gorm.DB, equipmentID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Checkout{}).
		Where("equipment_id = ? AND returned_at IS NULL", equipmentID).
		Count(&n).Error
	return n, err
}
