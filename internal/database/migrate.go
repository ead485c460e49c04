package database

import (
	"skymarket_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate прогоняет автомиграцию схемы
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ad{},
		&models.Comment{},
	)
}
