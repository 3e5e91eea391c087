package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/models"
)

var errAlreadyWaiting = errors.New("already on waitlist")

// ListWaitlist returns entries not yet notified, oldest first, with the kid's
// name and parent email for the manual notification.
func (s *Store) ListWaitlist(ctx context.Context) ([]models.WaitlistDetail, error) {
	var rows []models.WaitlistDetail
	err := s.conn(ctx).Table("equipment_waitlist w").
		Select(`w.id, w.kid_id, w.equipment_type, w.size, w.created_at, w.notified_at,
			k.name AS kid_name, k.parent_email`).
		Joins("JOIN kids k ON k.id = w.kid_id").
		Where("w.notified_at IS NULL").
		Order("w.created_at asc, w.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.WaitlistDetail{}
	}
	return rows, nil
}

// JoinWaitlist adds the kid to the waitlist for type+size. If the kid is already
// waiting (not yet notified) for the same pair, the existing entry is returned
// with created=false and nothing is written.
func (s *Store) JoinWaitlist(ctx context.Context, in RequestInput) (*models.WaitlistEntry, bool, error) {
	if err := in.normalize(); err != nil {
		return nil, false, err
	}
	var entry models.WaitlistEntry
	created := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := kidExists(tx, in.KidID); err != nil {
			return err
		}
		err := pendingEntry(tx, in).First(&entry).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		entry = models.WaitlistEntry{KidID: in.KidID, EquipmentType: in.EquipmentType, Size: in.Size}
		if err := tx.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyWaiting
			}
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, errAlreadyWaiting) {
		// lost a race with an identical submission
		if err := pendingEntry(s.conn(ctx), in).First(&entry).Error; err != nil {
			return nil, false, err
		}
		return &entry, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &entry, created, nil
}

func pendingEntry(tx *gorm.DB, in RequestInput) *gorm.DB {
	return tx.Where("kid_id = ? AND equipment_type = ? AND size = ? AND notified_at IS NULL",
		in.KidID, in.EquipmentType, in.Size)
}

// MarkWaitlistNotified records that the coordinator contacted the parent.
// The entry drops off the waitlist; marking twice keeps the first timestamp.
func (s *Store) MarkWaitlistNotified(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, id).Error; err != nil {
			return notFound(err, ErrWaitlistNotFound)
		}
		if entry.NotifiedAt != nil {
			return nil
		}
		now := time.Now().UTC()
		entry.NotifiedAt = &now
		return tx.Model(&models.WaitlistEntry{}).Where("id = ?", id).Update("notified_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
