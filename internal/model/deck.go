package model

import "time"

// DeckSize is the exact number of cards a deck holds.
const DeckSize = 10

type Deck struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:128;not null" json:"name"`
	UserID    uint       `gorm:"not null;index" json:"userId"`
	User      *User      `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	DeckCards []DeckCard `gorm:"foreignKey:DeckID" json:"deckCards"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// DeckCard joins one card to one deck. The pair is its identity.
type DeckCard struct {
	DeckID uint  `gorm:"primaryKey;autoIncrement:false" json:"deckId"`
	CardID uint  `gorm:"primaryKey;autoIncrement:false;index" json:"cardId"`
	Card   *Card `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}
