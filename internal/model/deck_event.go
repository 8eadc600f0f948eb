package model

import "time"

type DeckAction string

const (
	DeckActionCreated DeckAction = "created"
	DeckActionUpdated DeckAction = "updated"
	DeckActionDeleted DeckAction = "deleted"
)

// DeckEvent is an append-only audit record of a deck mutation.
type DeckEvent struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	DeckID     uint       `gorm:"not null;index" json:"deck_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Action     DeckAction `gorm:"size:16;not null" json:"action"`
	CardCount  int        `gorm:"not null" json:"card_count"`
	OccurredAt time.Time  `gorm:"not null" json:"occurred_at"`
}
