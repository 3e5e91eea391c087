package db

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/broomstones/loaners/internal/models"
)

const dsnParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Open connects to the sqlite file at path. Timestamps are written in UTC and
// driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(path string, lg logger.Interface) (*gorm.DB, error) {
	if lg == nil {
		lg = logger.Default.LogMode(logger.Silent)
	}
	conn, err := gorm.Open(sqlite.Open(path+dsnParams), &gorm.Config{
		Logger:         lg,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return conn, nil
}

// indexes GORM can't express from struct tags (partial + composite).
var indexes = []string{
	// at most one open checkout per equipment item
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_checkouts_open ON checkouts(equipment_id) WHERE returned_at IS NULL",
	"CREATE INDEX IF NOT EXISTS idx_checkouts_kid_open ON checkouts(kid_id, returned_at)",
	// a kid waits at most once per type+size until notified
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_waitlist_pending ON equipment_waitlist(kid_id, equipment_type, size) WHERE notified_at IS NULL",
	"CREATE INDEX IF NOT EXISTS idx_requests_created ON equipment_requests(created_at)",
}

// Migrate provisions every table and index. It runs once at startup, never
// from a request handler.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range indexes {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	if err := backfillNameSearch(conn); err != nil {
		return fmt.Errorf("backfill name_search: %w", err)
	}
	return nil
}

// backfillNameSearch fills the folded name for rows written before the
// column existed.
func backfillNameSearch(conn *gorm.DB) error {
	var kids []models.Kid
	if err := conn.Select("id", "name").
		Where("name_search = '' AND name <> ''").
		Find(&kids).Error; err != nil {
		return err
	}
	for _, k := range kids {
		if err := conn.Model(&models.Kid{}).
			Where("id = ?", k.ID).
			UpdateColumn("name_search", models.FoldName(k.Name)).Error; err != nil {
			return err
		}
	}
	return nil
}
