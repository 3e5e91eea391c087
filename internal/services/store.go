// Package services holds every read and write against the store. Multi-row
// state transitions run inside a single gorm transaction.
package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/broomstones/loaners/internal/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// kidExists is used by writes that reference a kid so a bad id becomes a 404
// instead of a foreign key failure.
func kidExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Kid{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrKidNotFound
	}
	return nil
}

// omitAssoc keeps Create/Save from touching association fields.
func omitAssoc(tx *gorm.DB) *gorm.DB {
	return tx.Omit(clause.Associations)
}
