package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tcg-backend/internal/model"
)

type DeckEventRepository struct {
	db *gorm.DB
}

func NewDeckEventRepository(db *gorm.DB) *DeckEventRepository {
	return &DeckEventRepository{db: db}
}

func (r *DeckEventRepository) Create(ctx context.Context, event *model.DeckEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create deck event failed: %w", err)
	}
	return nil
}

func (r *DeckEventRepository) ListByDeckID(ctx context.Context, deckID uint) ([]model.DeckEvent, error) {
	var events []model.DeckEvent
	if err := r.db.WithContext(ctx).
		Where("deck_id = ?", deckID).
		Order("occurred_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list deck events failed: %w", err)
	}
	return events, nil
}
