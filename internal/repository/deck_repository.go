package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tcg-backend/internal/model"
)

type DeckRepository struct {
	db *gorm.DB
}

func NewDeckRepository(db *gorm.DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// Create inserts the deck and one join row per card in a single transaction.
func (r *DeckRepository) Create(ctx context.Context, deck *model.Deck, cards []model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck.DeckCards = nil
		if err := tx.Create(deck).Error; err != nil {
			return fmt.Errorf("create deck failed: %w", err)
		}
		joins := deckCardsFor(deck.ID, cards)
		if err := tx.Create(&joins).Error; err != nil {
			return fmt.Errorf("create deck cards failed: %w", err)
		}
		deck.DeckCards = joins
		return nil
	})
}

func (r *DeckRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Deck, error) {
	decks := make([]model.Deck, 0)
	if err := r.db.WithContext(ctx).
		Preload("DeckCards", orderDeckCards).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&decks).Error; err != nil {
		return nil, fmt.Errorf("list decks failed: %w", err)
	}
	return decks, nil
}

// GetByID returns nil when no deck has this id.
func (r *DeckRepository) GetByID(ctx context.Context, id uint) (*model.Deck, error) {
	var deck model.Deck
	if err := r.db.WithContext(ctx).
		Preload("DeckCards", orderDeckCards).
		First(&deck, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deck failed: %w", err)
	}
	return &deck, nil
}

// ReplaceCards renames the deck, deletes every join row it has and inserts
// the new set, all in one transaction. It never diffs old against new.
func (r *DeckRepository) ReplaceCards(ctx context.Context, deck *model.Deck, name string, cards []model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Deck{}).Where("id = ?", deck.ID).Update("name", name).Error; err != nil {
			return fmt.Errorf("rename deck failed: %w", err)
		}
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&model.DeckCard{}).Error; err != nil {
			return fmt.Errorf("delete deck cards failed: %w", err)
		}
		joins := deckCardsFor(deck.ID, cards)
		if err := tx.Create(&joins).Error; err != nil {
			return fmt.Errorf("create deck cards failed: %w", err)
		}
		deck.Name = name
		deck.DeckCards = joins
		return nil
	})
}

// Delete removes the join rows and then the deck, atomically.
func (r *DeckRepository) Delete(ctx context.Context, deckID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&model.DeckCard{}).Error; err != nil {
			return fmt.Errorf("delete deck cards failed: %w", err)
		}
		if err := tx.Delete(&model.Deck{}, deckID).Error; err != nil {
			return fmt.Errorf("delete deck failed: %w", err)
		}
		return nil
	})
}

func (r *DeckRepository) CountCards(ctx context.Context, deckID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.DeckCard{}).Where("deck_id = ?", deckID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count deck cards failed: %w", err)
	}
	return count, nil
}

func deckCardsFor(deckID uint, cards []model.Card) []model.DeckCard {
	joins := make([]model.DeckCard, 0, len(cards))
	for _, card := range cards {
		joins = append(joins, model.DeckCard{DeckID: deckID, CardID: card.ID})
	}
	return joins
}

func orderDeckCards(db *gorm.DB) *gorm.DB {
	return db.Order("card_id ASC")
}
