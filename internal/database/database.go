package database

import (
	"log"

	"homechain/config"
	"homechain/internal/domain"
	"homechain/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.WalletMapping{},
		&models.TransactionRecord{},
		&models.TransactionAuditLog{},
		&models.TransactionNotification{},
		&models.DeviceToken{},
	)
}

// SeedAdmin ensures the privileged indexer account exists. Skipped when no
// admin password is configured.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	if cfg.Password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("email = ?", cfg.Email).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] admin password hash: %v", err)
		return
	}
	admin := models.User{
		Username:     "indexer",
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[Seed] admin user: %v", err)
		return
	}
	log.Printf("[Seed] admin user %s created", cfg.Email)
}
