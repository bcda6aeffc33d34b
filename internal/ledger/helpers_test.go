package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/config"
	"github.com/diewo77/tvstock/internal/models"
)

var (
	admin = auth.Principal{UserID: 1, Role: string(models.RoleAdmin)}
	staff = auth.Principal{UserID: 2, Role: string(models.RoleStaff)}
)

// setupTestDB opens a file-backed sqlite store so concurrent transactions
// queue on BEGIN IMMEDIATE like row locks would on a server database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := config.SQLiteDSN(filepath.Join(t.TempDir(), "ledger.db"), 10000)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setupLedger(t *testing.T) (*Ledger, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	fixed := time.Date(2024, 3, 9, 15, 4, 5, 0, time.Local)
	return New(db, WithClock(func() time.Time { return fixed })), db
}

func addUnit(t *testing.T, l *Ledger, serial string) *models.TVUnit {
	t.Helper()
	u, err := l.AddTVUnit(context.Background(), admin, TVSpec{Serial: serial, Brand: "Sony", Size: "55"})
	require.NoError(t, err)
	return u
}

func addItem(t *testing.T, l *Ledger, name string, main int) {
	t.Helper()
	_, err := l.AddAccessoryStock(context.Background(), admin, name, main)
	require.NoError(t, err)
}

func stockOf(t *testing.T, db *gorm.DB, name string) models.AccessoryStock {
	t.Helper()
	var s models.AccessoryStock
	require.NoError(t, db.Where("item_name = ?", name).Take(&s).Error)
	return s
}

func unitOf(t *testing.T, db *gorm.DB, serial string) models.TVUnit {
	t.Helper()
	var u models.TVUnit
	require.NoError(t, db.Where("serial_number = ?", serial).Take(&u).Error)
	return u
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
