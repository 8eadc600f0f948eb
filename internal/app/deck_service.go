package app

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"tcg-backend/internal/model"
	"tcg-backend/internal/repository"
)

// DeckEventPublisher receives a record of every committed deck mutation.
type DeckEventPublisher interface {
	Publish(ctx context.Context, event model.DeckEvent) error
}

type DeckService struct {
	deckRepo  *repository.DeckRepository
	cardRepo  *repository.CardRepository
	publisher DeckEventPublisher
}

type CreateDeckInput struct {
	Name  string
	Cards []int
}

type UpdateDeckInput struct {
	Name  string
	Cards []int
}

// NewDeckService accepts a nil publisher, in which case no events are sent.
func NewDeckService(deckRepo *repository.DeckRepository, cardRepo *repository.CardRepository, publisher DeckEventPublisher) *DeckService {
	return &DeckService{
		deckRepo:  deckRepo,
		cardRepo:  cardRepo,
		publisher: publisher,
	}
}

func (s *DeckService) Create(ctx context.Context, userID uint, input CreateDeckInput) (*model.Deck, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidDeckName
	}

	cards, err := s.resolveCards(ctx, input.Cards)
	if err != nil {
		return nil, err
	}

	deck := &model.Deck{Name: name, UserID: userID}
	if err := s.deckRepo.Create(ctx, deck, cards); err != nil {
		return nil, err
	}

	s.publish(ctx, deck, model.DeckActionCreated)
	return deck, nil
}

func (s *DeckService) ListMine(ctx context.Context, userID uint) ([]model.Deck, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.deckRepo.ListByUserID(ctx, userID)
}

// GetByID checks the id format and existence before ownership, so a missing
// deck is reported as not found whoever asks.
func (s *DeckService) GetByID(ctx context.Context, userID uint, rawID string) (*model.Deck, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	deckID, ok := parseDeckID(rawID)
	if !ok {
		return nil, ErrDeckNotFound
	}
	return s.ownedDeck(ctx, userID, deckID)
}

// Update replaces the whole card set of the deck. An empty name is reported
// as ErrDeckNotFound, like a malformed id.
func (s *DeckService) Update(ctx context.Context, userID uint, rawID string, input UpdateDeckInput) (*model.Deck, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	deckID, ok := parseDeckID(rawID)
	name := strings.TrimSpace(input.Name)
	if !ok || name == "" {
		return nil, ErrDeckNotFound
	}

	deck, err := s.ownedDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	cards, err := s.resolveCards(ctx, input.Cards)
	if err != nil {
		return nil, err
	}

	if err := s.deckRepo.ReplaceCards(ctx, deck, name, cards); err != nil {
		return nil, err
	}

	s.publish(ctx, deck, model.DeckActionUpdated)
	return deck, nil
}

func (s *DeckService) Delete(ctx context.Context, userID uint, rawID string) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	deckID, ok := parseDeckID(rawID)
	if !ok {
		return ErrDeckNotFound
	}

	deck, err := s.ownedDeck(ctx, userID, deckID)
	if err != nil {
		return err
	}

	if err := s.deckRepo.Delete(ctx, deck.ID); err != nil {
		return err
	}

	deck.DeckCards = nil
	s.publish(ctx, deck, model.DeckActionDeleted)
	return nil
}

func (s *DeckService) ownedDeck(ctx context.Context, userID, deckID uint) (*model.Deck, error) {
	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	if deck.UserID != userID {
		return nil, ErrDeckForbidden
	}
	return deck, nil
}

// resolveCards requires exactly DeckSize numbers and exactly DeckSize distinct
// catalog matches. Duplicates or unknown numbers fail the second check.
func (s *DeckService) resolveCards(ctx context.Context, numbers []int) ([]model.Card, error) {
	if len(numbers) != model.DeckSize {
		return nil, ErrInvalidCards
	}
	cards, err := s.cardRepo.FindByPokedexNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	if len(cards) != model.DeckSize {
		return nil, ErrInvalidCards
	}
	return cards, nil
}

func (s *DeckService) publish(ctx context.Context, deck *model.Deck, action model.DeckAction) {
	if s.publisher == nil {
		return
	}
	event := model.DeckEvent{
		DeckID:     deck.ID,
		UserID:     deck.UserID,
		Action:     action,
		CardCount:  len(deck.DeckCards),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish deck event failed: deck=%d action=%s err=%v", deck.ID, action, err)
	}
}

func parseDeckID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
