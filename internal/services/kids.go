package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/models"
)

// ListKids returns the roster by name, each kid annotated with its open checkout count.
func (s *Store) ListKids(ctx context.Context) ([]models.KidWithCount, error) {
	var kids []models.KidWithCount
	err := s.conn(ctx).Table("kids k").
		Select(`k.id, k.created_at, k.updated_at, k.name, k.grade, k.shoe_size,
			k.parent_name, k.parent_email, k.parent_phone, k.notes,
			(SELECT COUNT(*) FROM checkouts c WHERE c.kid_id = k.id AND c.returned_at IS NULL) AS active_checkouts`).
		Order("k.name_search asc, k.id asc").
		Scan(&kids).Error
	if err != nil {
		return nil, err
	}
	if kids == nil {
		kids = []models.KidWithCount{}
	}
	return kids, nil
}

func (s *Store) GetKid(ctx context.Context, id uint) (*models.Kid, error) {
	var kid models.Kid
	if err := s.conn(ctx).First(&kid, id).Error; err != nil {
		return nil, notFound(err, ErrKidNotFound)
	}
	return &kid, nil
}

func (s *Store) CreateKid(ctx context.Context, in KidInput) (*models.Kid, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var kid models.Kid
	in.apply(&kid)
	if err := omitAssoc(s.conn(ctx)).Create(&kid).Error; err != nil {
		return nil, err
	}
	return &kid, nil
}

// UpdateKid replaces every editable field of the kid.
func (s *Store) UpdateKid(ctx context.Context, id uint, in KidInput) (*models.Kid, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var kid models.Kid
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&kid, id).Error; err != nil {
			return notFound(err, ErrKidNotFound)
		}
		in.apply(&kid)
		return omitAssoc(tx).Save(&kid).Error
	})
	if err != nil {
		return nil, err
	}
	return &kid, nil
}

// DeleteKid removes the kid with its checkouts, requests and waitlist entries.
// Items the kid still had out go back to available so equipment status keeps
// matching the open checkouts.
func (s *Store) DeleteKid(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := kidExists(tx, id); err != nil {
			return err
		}

		var held []uint
		if err := tx.Model(&models.Checkout{}).
			Where("kid_id = ? AND returned_at IS NULL", id).
			Pluck("equipment_id", &held).Error; err != nil {
			return err
		}
		if len(held) > 0 {
			if err := tx.Model(&models.Equipment{}).
				Where("id IN ? AND status = ?", held, models.StatusCheckedOut).
				Update("status", models.StatusAvailable).Error; err != nil {
				return err
			}
		}

		for _, m := range []any{&models.WaitlistEntry{}, &models.EquipmentRequest{}, &models.Checkout{}} {
			if err := tx.Where("kid_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Kid{}, id).Error
	})
}

// KidSummaries is the public view of the roster: no parent contact details.
func KidSummaries(kids []models.KidWithCount) []models.KidSummary {
	out := make([]models.KidSummary, 0, len(kids))
	for _, k := range kids {
		out = append(out, models.KidSummary{ID: k.ID, Name: k.Name, ShoeSize: k.ShoeSize})
	}
	return out
}

// FilterKids keeps kids whose name, parent name or shoe size contains q,
// ignoring case. An empty q keeps everything.
func FilterKids(kids []models.KidWithCount, q string) []models.KidWithCount {
	q = models.FoldName(strings.TrimSpace(q))
	if q == "" {
		return kids
	}
	out := make([]models.KidWithCount, 0, len(kids))
	for _, k := range kids {
		if strings.Contains(models.FoldName(k.Name), q) ||
			strings.Contains(models.FoldName(k.ParentName), q) ||
			strings.Contains(models.FoldName(k.ShoeSize), q) {
			out = append(out, k)
		}
	}
	return out
}
