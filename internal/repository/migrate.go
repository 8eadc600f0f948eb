package repository

import (
	"fmt"

	"gorm.io/gorm"

	"tcg-backend/internal/model"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Card{},
		&model.Deck{},
		&model.DeckCard{},
		&model.DeckEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
