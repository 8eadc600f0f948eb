package model

import "time"

type Card struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Name          string      `gorm:"size:128;not null" json:"name"`
	HP            int         `gorm:"not null" json:"hp"`
	Attack        int         `gorm:"not null" json:"attack"`
	Type          PokemonType `gorm:"size:16;not null" json:"type"`
	PokedexNumber int         `gorm:"not null;uniqueIndex" json:"pokedexNumber"`
	ImgURL        string      `gorm:"size:255" json:"imgUrl"`
	CreatedAt     time.Time   `json:"-"`
	UpdatedAt     time.Time   `json:"-"`
}
