package db

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/internal/models"
)

// AdminSeed describes the bootstrap admin account.
type AdminSeed struct {
	Username string
	Phone    string
	Password string
}

// SeedAdmin creates the bootstrap admin when no user of that name exists.
// Existing accounts are left untouched, so running it twice is harmless.
// An empty password skips seeding.
func SeedAdmin(db *gorm.DB, seed AdminSeed, log *zap.Logger) error {
	if seed.Username == "" || seed.Password == "" {
		log.Info("admin seed skipped: ADMIN_USERNAME or ADMIN_PASSWORD unset")
		return nil
	}
	var existing models.User
	err := db.Where("username = ?", seed.Username).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}
	hash, err := HashPassword(seed.Password)
	if err != nil {
		return err
	}
	admin := models.User{Username: seed.Username, Phone: seed.Phone, Password: hash, Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin seeded", zap.String("username", seed.Username))
	return nil
}

// HashPassword returns the bcrypt hash stored in admin_login.password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
