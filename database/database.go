package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/models"
)

// Connect opens the Postgres document store and returns the handle. The
// handle is injected into the store layer; nothing in this package keeps a
// global copy.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the three collections.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Message{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}
