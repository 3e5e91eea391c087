package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/broomstones/loaners/internal/db"
	"github.com/broomstones/loaners/internal/models"
)

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

// TestWALMode verifies that the DSN parameters enable WAL journal mode.
func TestWALMode(t *testing.T) {
	conn := openMigrated(t)

	var mode string
	conn.Raw("PRAGMA journal_mode").Scan(&mode)
	assert.Equal(t, "wal", mode)

	var fk int
	conn.Raw("PRAGMA foreign_keys").Scan(&fk)
	assert.Equal(t, 1, fk)
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	conn := openMigrated(t)

	for _, table := range []string{"kids", "equipment", "checkouts", "equipment_requests", "equipment_waitlist"} {
		assert.True(t, conn.Migrator().HasTable(table), "table %s", table)
	}

	sqlDB, err := conn.DB()
	require.NoError(t, err)

	assert.True(t, indexNames(t, sqlDB, "checkouts")["idx_checkouts_open"])
	assert.True(t, indexNames(t, sqlDB, "equipment_waitlist")["idx_waitlist_pending"])

	// running twice is harmless
	require.NoError(t, db.Migrate(conn))
}

func TestMigrate_OpenCheckoutIndexIsUnique(t *testing.T) {
	conn := openMigrated(t)

	kid := models.Kid{Name: "Ava"}
	require.NoError(t, conn.Create(&kid).Error)
	eq := models.Equipment{Type: models.TypeShoes, Size: "5", Condition: models.ConditionGood, Status: models.StatusAvailable}
	require.NoError(t, conn.Create(&eq).Error)

	now := time.Now().UTC()
	require.NoError(t, conn.Omit("Equipment").Create(&models.Checkout{EquipmentID: eq.ID, KidID: kid.ID, CheckedOutAt: now}).Error)
	err := conn.Omit("Equipment").Create(&models.Checkout{EquipmentID: eq.ID, KidID: kid.ID, CheckedOutAt: now}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// closed loans don't count
	require.NoError(t, conn.Model(&models.Checkout{}).Where("equipment_id = ?", eq.ID).Update("returned_at", now).Error)
	require.NoError(t, conn.Omit("Equipment").Create(&models.Checkout{EquipmentID: eq.ID, KidID: kid.ID, CheckedOutAt: now}).Error)
}

func TestMigrate_KidDeleteCascades(t *testing.T) {
	conn := openMigrated(t)

	kid := models.Kid{Name: "Ben"}
	require.NoError(t, conn.Create(&kid).Error)
	require.NoError(t, conn.Create(&models.EquipmentRequest{KidID: kid.ID, EquipmentType: "shoes", Size: "4", Status: models.RequestPending}).Error)
	require.NoError(t, conn.Create(&models.WaitlistEntry{KidID: kid.ID, EquipmentType: "shoes", Size: "4"}).Error)

	require.NoError(t, conn.Exec("DELETE FROM kids WHERE id = ?", kid.ID).Error)

	var n int64
	conn.Model(&models.EquipmentRequest{}).Count(&n)
	assert.Zero(t, n)
	conn.Model(&models.WaitlistEntry{}).Count(&n)
	assert.Zero(t, n)
}

func TestMigrate_BackfillsFoldedNames(t *testing.T) {
	conn := openMigrated(t)

	// rows written without the folded column, as before it existed
	require.NoError(t, conn.Create(&models.Kid{Name: "Élodie Martin"}).Error)
	require.NoError(t, db.Migrate(conn))

	var folded string
	require.NoError(t, conn.Model(&models.Kid{}).Select("name_search").Where("name = ?", "Élodie Martin").Scan(&folded).Error)
	assert.Equal(t, "élodie martin", folded)
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		require.NoError(t, rows.Scan(&seq, &name, &unique, &origin, &partial))
		out[name] = true
	}
	return out
}
