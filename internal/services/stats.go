package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/models"
)

const recentActivityLimit = 10

type EquipmentTotals struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	CheckedOut  int64 `json:"checked_out"`
	Retired     int64 `json:"retired"`
	TotalShoes  int64 `json:"total_shoes"`
	TotalBrooms int64 `json:"total_brooms"`
}

type KidTotals struct {
	Total int64 `json:"total"`
}

type CheckoutTotals struct {
	ActiveCheckouts int64 `json:"active_checkouts"`
}

type ShoeSizeCount struct {
	ShoeSize string `json:"shoe_size"`
	Count    int64  `json:"count"`
}

type SizeCount struct {
	Size  string `json:"size"`
	Count int64  `json:"count"`
}

type Stats struct {
	Equipment             EquipmentTotals         `json:"equipment"`
	Kids                  KidTotals               `json:"kids"`
	Checkouts             CheckoutTotals          `json:"checkouts"`
	KidsSizeDistribution  []ShoeSizeCount         `json:"kidsSizeDistribution"`
	AvailableShoesBySize  []SizeCount             `json:"availableShoesBySize"`
	AvailableBroomsBySize []SizeCount             `json:"availableBroomsBySize"`
	RecentActivity        []models.CheckoutDetail `json:"recentActivity"`
	Shortages             []Shortage              `json:"shortages"`
}

// Stats computes the dashboard aggregates inside one read transaction so every
// figure comes from the same snapshot. Nothing is cached.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		// Single aggregation query instead of one COUNT per figure.
		if err := tx.Model(&models.Equipment{}).
			Select(`COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN status = 'available'   THEN 1 ELSE 0 END), 0) AS available,
				COALESCE(SUM(CASE WHEN status = 'checked_out' THEN 1 ELSE 0 END), 0) AS checked_out,
				COALESCE(SUM(CASE WHEN status = 'retired'     THEN 1 ELSE 0 END), 0) AS retired,
				COALESCE(SUM(CASE WHEN type = 'shoes'         THEN 1 ELSE 0 END), 0) AS total_shoes,
				COALESCE(SUM(CASE WHEN type = 'broom'         THEN 1 ELSE 0 END), 0) AS total_brooms`).
			Scan(&st.Equipment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Kid{}).Count(&st.Kids.Total).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Checkout{}).
			Where("returned_at IS NULL").
			Count(&st.Checkouts.ActiveCheckouts).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Kid{}).
			Select("shoe_size, COUNT(*) AS count").
			Where("shoe_size IS NOT NULL AND shoe_size <> ''").
			Group("shoe_size").
			Scan(&st.KidsSizeDistribution).Error; err != nil {
			return err
		}
		if err := availableBySize(tx, models.TypeShoes, &st.AvailableShoesBySize); err != nil {
			return err
		}
		if err := availableBySize(tx, models.TypeBroom, &st.AvailableBroomsBySize); err != nil {
			return err
		}

		return checkoutDetails(tx).
			Order("COALESCE(c.returned_at, c.checked_out_at) desc, c.id desc").
			Limit(recentActivityLimit).
			Scan(&st.RecentActivity).Error
	})
	if err != nil {
		return nil, err
	}

	sortBySize(st.KidsSizeDistribution, func(c ShoeSizeCount) string { return c.ShoeSize })
	sortBySize(st.AvailableShoesBySize, func(c SizeCount) string { return c.Size })
	sortBySize(st.AvailableBroomsBySize, func(c SizeCount) string { return c.Size })
	st.Shortages = Shortages(st.KidsSizeDistribution, st.AvailableShoesBySize)

	if st.KidsSizeDistribution == nil {
		st.KidsSizeDistribution = []ShoeSizeCount{}
	}
	if st.AvailableShoesBySize == nil {
		st.AvailableShoesBySize = []SizeCount{}
	}
	if st.AvailableBroomsBySize == nil {
		st.AvailableBroomsBySize = []SizeCount{}
	}
	if st.RecentActivity == nil {
		st.RecentActivity = []models.CheckoutDetail{}
	}
	return st, nil
}

func availableBySize(tx *gorm.DB, typ string, out *[]SizeCount) error {
	return tx.Model(&models.Equipment{}).
		Select("size, COUNT(*) AS count").
		Where("type = ? AND status = ? AND size IS NOT NULL AND size <> ''", typ, models.StatusAvailable).
		Group("size").
		Scan(out).Error
}
