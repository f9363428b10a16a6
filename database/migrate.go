package database

import (
	"roomly_backend/internal/logger"
	"roomly_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate выполняет миграцию всех моделей
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.PasswordReset{},
	)
	if err != nil {
		return err
	}

	logger.Info("✅ AutoMigrate успешно завершен")
	return nil
}
