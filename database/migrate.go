package database

import (
	"fmt"

	"workhub_backend/internal/config"
	"workhub_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens the GORM connection using the configured DSN. The
// connection is cached for subsequent calls.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Plan{},
		&models.Subscription{},
		&models.PaymentOrder{},
		&models.Job{},
		&models.SavedJob{},
		&models.Application{},
		&models.ApplicationStatusEvent{},
		&models.Notification{},
		&models.Dialog{},
		&models.ChatMessage{},
		&models.HelpSession{},
		&models.HelpMessage{},
		&models.SavedCandidate{},
		&models.CalendarEvent{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Upload{},
	)
}
