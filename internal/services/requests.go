package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/models"
)

// ListRequests returns every request with the kid's name and shoe size, newest first.
func (s *Store) ListRequests(ctx context.Context) ([]models.RequestDetail, error) {
	var rows []models.RequestDetail
	err := s.conn(ctx).Table("equipment_requests r").
		Select(`r.id, r.kid_id, r.equipment_type, r.size, r.notes, r.status, r.created_at, r.fulfilled_at,
			k.name AS kid_name, k.shoe_size AS kid_shoe_size`).
		Joins("JOIN kids k ON k.id = r.kid_id").
		Order("r.created_at desc, r.id desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.RequestDetail{}
	}
	return rows, nil
}

// CreateRequest files a parent's request. Inventory is not consulted.
func (s *Store) CreateRequest(ctx context.Context, in RequestInput) (*models.EquipmentRequest, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	req := models.EquipmentRequest{
		KidID:         in.KidID,
		EquipmentType: in.EquipmentType,
		Size:          in.Size,
		Notes:         in.Notes,
		Status:        models.RequestPending,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := kidExists(tx, in.KidID); err != nil {
			return err
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FulfillRequest marks a pending request handled. Fulfilling twice is a no-op.
func (s *Store) FulfillRequest(ctx context.Context, id uint) (*models.EquipmentRequest, error) {
	var req models.EquipmentRequest
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, id).Error; err != nil {
			return notFound(err, ErrRequestNotFound)
		}
		if req.Status == models.RequestFulfilled {
			return nil
		}
		now := time.Now().UTC()
		req.Status = models.RequestFulfilled
		req.FulfilledAt = &now
		return tx.Model(&models.EquipmentRequest{}).Where("id = ?", id).
			Updates(map[string]any{"status": req.Status, "fulfilled_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
