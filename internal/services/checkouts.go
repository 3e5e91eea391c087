package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/models"
)

func checkoutDetails(tx *gorm.DB) *gorm.DB {
	return tx.Table("checkouts c").
		Select(`c.id, c.equipment_id, c.kid_id, c.checked_out_at, c.returned_at, c.notes,
			k.name AS kid_name,
			e.type AS equipment_type, e.size AS equipment_size, e.brand AS equipment_brand`).
		Joins("JOIN kids k ON k.id = c.kid_id").
		Joins("JOIN equipment e ON e.id = c.equipment_id")
}

// ListCheckouts returns loans with kid and equipment details, most recent first.
// activeOnly restricts to loans not yet returned.
func (s *Store) ListCheckouts(ctx context.Context, activeOnly bool) ([]models.CheckoutDetail, error) {
	q := checkoutDetails(s.conn(ctx))
	if activeOnly {
		q = q.Where("c.returned_at IS NULL")
	}
	var rows []models.CheckoutDetail
	if err := q.Order("c.checked_out_at desc, c.id desc").Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.CheckoutDetail{}
	}
	return rows, nil
}

// Checkout lends an available item to a kid. The status flip and the loan row
// are written in one transaction; the status update is conditional on the item
// still being available, so two concurrent attempts cannot both succeed.
func (s *Store) Checkout(ctx context.Context, in CheckoutInput) (*models.Checkout, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var co models.Checkout
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var eq models.Equipment
		if err := tx.Select("id", "status").First(&eq, in.EquipmentID).Error; err != nil {
			return notFound(err, ErrEquipmentNotFound)
		}
		if eq.Status != models.StatusAvailable {
			return ErrEquipmentNotAvailable
		}
		if err := kidExists(tx, in.KidID); err != nil {
			return err
		}

		res := tx.Model(&models.Equipment{}).
			Where("id = ? AND status = ?", in.EquipmentID, models.StatusAvailable).
			Update("status", models.StatusCheckedOut)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEquipmentNotAvailable
		}

		co = models.Checkout{
			EquipmentID:  in.EquipmentID,
			KidID:        in.KidID,
			CheckedOutAt: time.Now().UTC(),
			Notes:        in.Notes,
		}
		if err := omitAssoc(tx).Create(&co).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEquipmentNotAvailable
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &co, nil
}

// ReturnCheckout closes an open loan and puts the item back in circulation.
// A retired item stays retired.
func (s *Store) ReturnCheckout(ctx context.Context, id uint) (*models.Checkout, error) {
	var co models.Checkout
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND returned_at IS NULL", id).First(&co).Error; err != nil {
			return notFound(err, ErrCheckoutNotFound)
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Checkout{}).
			Where("id = ? AND returned_at IS NULL", id).
			Update("returned_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCheckoutNotFound
		}
		co.ReturnedAt = &now

		return tx.Model(&models.Equipment{}).
			Where("id = ? AND status = ?", co.EquipmentID, models.StatusCheckedOut).
			Update("status", models.StatusAvailable).Error
	})
	if err != nil {
		return nil, err
	}
	return &co, nil
}

// ReturnOutcome is the result of returning one loan in a batch.
type ReturnOutcome struct {
	ID       uint
	Checkout *models.Checkout
	Err      error
}

// ReturnMany returns each loan independently and concurrently. A failure for
// one id does not undo the others; the caller gets one outcome per id, in order.
func (s *Store) ReturnMany(ctx context.Context, ids []uint) []ReturnOutcome {
	out := make([]ReturnOutcome, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			co, err := s.ReturnCheckout(ctx, id)
			out[i] = ReturnOutcome{ID: id, Checkout: co, Err: err}
		}(i, id)
	}
	wg.Wait()
	return out
}
