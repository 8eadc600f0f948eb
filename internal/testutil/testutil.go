// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tcg-backend/internal/model"
	"tcg-backend/internal/repository"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var sampleTypes = []model.PokemonType{
	model.TypeGrass, model.TypeFire, model.TypeWater, model.TypeElectric,
	model.TypeNormal, model.TypePsychic,
}

// SeedCards inserts n cards with pokedex numbers 1..n and returns them.
func SeedCards(t *testing.T, db *gorm.DB, n int) []model.Card {
	t.Helper()

	cards := make([]model.Card, 0, n)
	for i := 1; i <= n; i++ {
		cards = append(cards, model.Card{
			Name:          fmt.Sprintf("Card %03d", i),
			HP:            40 + i,
			Attack:        30 + i,
			Type:          sampleTypes[i%len(sampleTypes)],
			PokedexNumber: i,
			ImgURL:        fmt.Sprintf("https://example.com/%d.png", i),
		})
	}
	if err := db.Create(&cards).Error; err != nil {
		t.Fatalf("seed cards: %v", err)
	}
	return cards
}

// CreateUser inserts a user with a placeholder hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()

	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// Numbers returns the pokedex numbers from..to inclusive.
func Numbers(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
