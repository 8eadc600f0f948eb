package model

import "fmt"

// PokemonType is the elemental type of a card. The set is closed.
type PokemonType string

const (
	TypeNormal   PokemonType = "Normal"
	TypeFire     PokemonType = "Fire"
	TypeWater    PokemonType = "Water"
	TypeElectric PokemonType = "Electric"
	TypeGrass    PokemonType = "Grass"
	TypeIce      PokemonType = "Ice"
	TypeFighting PokemonType = "Fighting"
	TypePoison   PokemonType = "Poison"
	TypeGround   PokemonType = "Ground"
	TypeFlying   PokemonType = "Flying"
	TypePsychic  PokemonType = "Psychic"
	TypeBug      PokemonType = "Bug"
	TypeRock     PokemonType = "Rock"
	TypeGhost    PokemonType = "Ghost"
	TypeDragon   PokemonType = "Dragon"
	TypeDark     PokemonType = "Dark"
	TypeSteel    PokemonType = "Steel"
	TypeFairy    PokemonType = "Fairy"
)

// PokemonTypes lists every known type in canonical order.
var PokemonTypes = []PokemonType{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

func (t PokemonType) Valid() bool {
	for _, known := range PokemonTypes {
		if t == known {
			return true
		}
	}
	return false
}

func ParsePokemonType(raw string) (PokemonType, error) {
	t := PokemonType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown pokemon type %q", raw)
	}
	return t, nil
}
