package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tcg-backend/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) ListOrderedByPokedex(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := r.db.WithContext(ctx).Order("pokedex_number ASC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list cards failed: %w", err)
	}
	return cards, nil
}

// FindByPokedexNumbers returns the distinct catalog cards matching numbers.
// Repeated or unknown numbers simply produce fewer rows.
func (r *CardRepository) FindByPokedexNumbers(ctx context.Context, numbers []int) ([]model.Card, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	var cards []model.Card
	if err := r.db.WithContext(ctx).
		Where("pokedex_number IN ?", numbers).
		Order("pokedex_number ASC").
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("find cards by pokedex numbers failed: %w", err)
	}
	return cards, nil
}

func (r *CardRepository) CreateBatch(ctx context.Context, cards []model.Card) error {
	if len(cards) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&cards).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create cards failed: %w", err)
	}
	return nil
}
