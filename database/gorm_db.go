package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/takeoutorganizer/models"
)

// InitGormDB opens the run-catalog database and migrates its schema
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	if err := db.AutoMigrate(&models.Run{}, &models.MediaItemRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate run catalog schema: %w", err)
	}
	return db, nil
}
