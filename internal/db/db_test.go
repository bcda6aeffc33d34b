package db

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/diewo77/tvstock/internal/config"
	"github.com/diewo77/tvstock/internal/models"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver:        config.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "test.db"),
		BusyTimeoutMS: 2000,
		MaxOpenConns:  4,
	}
}

func TestConnectMigrateSeed(t *testing.T) {
	cfg := sqliteConfig(t)
	log := zap.NewNop()

	d, err := Connect(cfg, log)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	// useSQL is ignored for sqlite: AutoMigrate always builds the schema.
	if err := Migrate(d, cfg, true, log); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	seed := AdminSeed{Username: "owner", Phone: "9000000000", Password: "s3cret"}
	if err := SeedAdmin(d, seed, log); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	seed.Password = "changed"
	if err := SeedAdmin(d, seed, log); err != nil {
		t.Fatalf("SeedAdmin again: %v", err)
	}

	var users []models.User
	if err := d.Find(&users).Error; err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(users))
	}
	u := users[0]
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
	if !CheckPassword(u.Password, "s3cret") {
		t.Error("seeded password must match the first seed")
	}
	if CheckPassword(u.Password, "changed") {
		t.Error("second seed must not overwrite the password")
	}
}

func TestSeedAdminSkipsWithoutPassword(t *testing.T) {
	cfg := sqliteConfig(t)
	d, err := Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(d, cfg, false, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if err := SeedAdmin(d, AdminSeed{Username: "owner"}, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	var n int64
	d.Model(&models.User{}).Count(&n)
	if n != 0 {
		t.Errorf("expected no users, got %d", n)
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	if _, err := Connect(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop()); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestMaskDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"host=db user=u password=hunter2 dbname=x", "host=db user=u password=*** dbname=x"},
		{"shop:pw@tcp(db:3306)/stock?parseTime=true", "shop:***@tcp(db:3306)/stock?parseTime=true"},
		{"file:stock.db?_txlock=immediate", "file:stock.db?_txlock=immediate"},
	}
	for _, tt := range tests {
		if got := MaskDSN(tt.in); got != tt.want {
			t.Errorf("MaskDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSQLDriverName(t *testing.T) {
	if SQLDriverName(config.DriverPostgres) != "pgx" || SQLDriverName(config.DriverMySQL) != "mysql" || SQLDriverName(config.DriverSQLite) != "sqlite3" {
		t.Error("unexpected driver names")
	}
}
