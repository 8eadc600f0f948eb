package app

import (
	"context"

	"tcg-backend/internal/model"
	"tcg-backend/internal/repository"
)

type CardService struct {
	cardRepo *repository.CardRepository
}

func NewCardService(cardRepo *repository.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// ListCards returns the whole catalog ordered by pokedex number.
func (s *CardService) ListCards(ctx context.Context) ([]model.Card, error) {
	cards, err := s.cardRepo.ListOrderedByPokedex(ctx)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []model.Card{}
	}
	return cards, nil
}
