package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Register the database drivers golang-migrate dispatches to by URL scheme.
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/internal/config"
	"github.com/diewo77/tvstock/internal/models"
)

//go:embed migrations
var migrationsFS embed.FS

// requiredTables must exist once the schema is applied.
var requiredTables = []string{
	"admin_login", "tv_inventory", "accessory_stock",
	"b2c_tv_sales", "b2b_tv_sales", "b2c_accessory_sales",
}

// Migrate applies the schema. With useSQL on a server database the embedded
// SQL migrations run through golang-migrate; otherwise gorm AutoMigrate
// builds the tables from the models.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig, useSQL bool, log *zap.Logger) error {
	if useSQL && cfg.Driver != config.DriverSQLite {
		log.Info("running sql migrations", zap.String("driver", cfg.Driver))
		if err := runSQLMigrations(cfg); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range models.All() {
			if err := db.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range requiredTables {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(cfg config.DatabaseConfig) error {
	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
