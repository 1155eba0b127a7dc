package stubapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/security"
)

// OpenStore opens (or creates) the SQLite database and migrates the schema.
func OpenStore(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", dbPath, err)
	}
	if err := db.AutoMigrate(
		&userModel{},
		&refreshTokenModel{},
		&artworkModel{},
		&contactModel{},
		&inquiryModel{},
		&uploadModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// SeedAdmin creates the configured admin account when it does not exist yet.
func SeedAdmin(db *gorm.DB, stub config.StubConfig, password config.PasswordConfig) error {
	email := strings.TrimSpace(stub.SeedAdmin)
	if email == "" {
		return nil
	}
	var count int64
	if err := db.Model(&userModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := security.HashPassword(stub.SeedSecret, password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	now := time.Now().UTC()
	return db.Create(&userModel{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        email,
		Role:         "admin",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}
