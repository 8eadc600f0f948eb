// Package seed resets the store to a demo state: two trainers, the embedded
// card catalog and one random starter deck per trainer.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tcg-backend/internal/model"
	"tcg-backend/internal/repository"
)

const (
	DefaultPassword = "password123"
	StarterDeckName = "Starter Deck"

	imageURLPattern = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"
)

var DefaultUsers = []string{"red", "blue"}

var ErrNotEnoughCards = errors.New("at least 10 cards are required")

//go:embed data/pokemon.json
var pokemonJSON []byte

type cardRecord struct {
	Name          string `json:"name"`
	HP            int    `json:"hp"`
	Attack        int    `json:"attack"`
	Type          string `json:"type"`
	PokedexNumber int    `json:"pokedexNumber"`
}

type Options struct {
	// Cards overrides the embedded dataset when non-nil.
	Cards    []model.Card
	Password string
	Rand     *rand.Rand
	// Logf receives one line per completed step. Nil discards them.
	Logf func(format string, args ...any)
}

type Result struct {
	Users []model.User
	Cards []model.Card
	Decks []model.Deck
}

// LoadCards parses the embedded dataset into cards ready to insert.
func LoadCards() ([]model.Card, error) {
	var records []cardRecord
	if err := json.Unmarshal(pokemonJSON, &records); err != nil {
		return nil, fmt.Errorf("decode card dataset failed: %w", err)
	}

	cards := make([]model.Card, 0, len(records))
	for _, r := range records {
		pokemonType, err := model.ParsePokemonType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", r.Name, err)
		}
		cards = append(cards, model.Card{
			Name:          r.Name,
			HP:            r.HP,
			Attack:        r.Attack,
			Type:          pokemonType,
			PokedexNumber: r.PokedexNumber,
			ImgURL:        fmt.Sprintf(imageURLPattern, r.PokedexNumber),
		})
	}
	return cards, nil
}

// Run wipes deck events, decks, cards and users, then recreates the demo data
// in one transaction.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	cards := opts.Cards
	if cards == nil {
		loaded, err := LoadCards()
		if err != nil {
			return nil, err
		}
		cards = loaded
	}
	if len(cards) < model.DeckSize {
		return nil, ErrNotEnoughCards
	}

	password := opts.Password
	if password == "" {
		password = DefaultPassword
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	result := &Result{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}
		logf("cleared existing data")

		userRepo := repository.NewUserRepository(tx)
		for _, name := range DefaultUsers {
			user := model.User{
				Username:     name,
				Email:        name + "@example.com",
				PasswordHash: string(hash),
			}
			if err := userRepo.Create(ctx, &user); err != nil {
				return fmt.Errorf("create user %s: %w", name, err)
			}
			result.Users = append(result.Users, user)
		}
		logf("created users: %s, %s", result.Users[0].Username, result.Users[1].Username)

		created := make([]model.Card, len(cards))
		copy(created, cards)
		for i := range created {
			created[i].ID = 0
		}
		if err := repository.NewCardRepository(tx).CreateBatch(ctx, created); err != nil {
			return fmt.Errorf("create cards: %w", err)
		}
		result.Cards = created
		logf("created %d cards", len(created))

		deckRepo := repository.NewDeckRepository(tx)
		for _, user := range result.Users {
			deck := model.Deck{Name: StarterDeckName, UserID: user.ID}
			if err := deckRepo.Create(ctx, &deck, PickRandom(rng, created, model.DeckSize)); err != nil {
				return fmt.Errorf("create starter deck for %s: %w", user.Username, err)
			}
			result.Decks = append(result.Decks, deck)
			logf("created %s for %s with %d cards", deck.Name, user.Username, len(deck.DeckCards))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PickRandom returns n distinct cards drawn without replacement.
func PickRandom(rng *rand.Rand, cards []model.Card, n int) []model.Card {
	if n > len(cards) {
		n = len(cards)
	}
	picked := make([]model.Card, 0, n)
	for _, i := range rng.Perm(len(cards))[:n] {
		picked = append(picked, cards[i])
	}
	return picked
}

func clearTables(tx *gorm.DB) error {
	for _, table := range []any{&model.DeckEvent{}, &model.DeckCard{}, &model.Deck{}, &model.Card{}, &model.User{}} {
		if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear table failed: %w", err)
		}
	}
	return nil
}
