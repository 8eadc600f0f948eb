// Package rules holds the type-effectiveness rules used to resolve attacks.
package rules

import (
	"fmt"
	"math"

	"tcg-backend/internal/model"
)

// weaknesses maps a defending type to the attacking type it is weak against.
// Each entry is authored on its own; the relation is not symmetric.
var weaknesses = map[model.PokemonType]model.PokemonType{
	model.TypeNormal:   model.TypeFighting,
	model.TypeFire:     model.TypeWater,
	model.TypeWater:    model.TypeElectric,
	model.TypeElectric: model.TypeGround,
	model.TypeGrass:    model.TypeFire,
	model.TypeIce:      model.TypeFire,
	model.TypeFighting: model.TypePsychic,
	model.TypePoison:   model.TypePsychic,
	model.TypeGround:   model.TypeWater,
	model.TypeFlying:   model.TypeElectric,
	model.TypePsychic:  model.TypeDark,
	model.TypeBug:      model.TypeFire,
	model.TypeRock:     model.TypeWater,
	model.TypeGhost:    model.TypeDark,
	model.TypeDragon:   model.TypeIce,
	model.TypeDark:     model.TypeFighting,
	model.TypeSteel:    model.TypeFire,
	model.TypeFairy:    model.TypePoison,
}

const (
	SuperEffective = 2.0
	Neutral        = 1.0
)

// Weakness returns the type that deals bonus damage to defender.
// ok is false only for a type outside the known set.
func Weakness(defender model.PokemonType) (model.PokemonType, bool) {
	weakness, ok := weaknesses[defender]
	return weakness, ok
}

// DamageMultiplier panics when either type is unknown.
func DamageMultiplier(attacker, defender model.PokemonType) float64 {
	mustBeKnown(attacker)
	weakness, ok := Weakness(defender)
	if !ok {
		panic(fmt.Sprintf("rules: unknown defender type %q", defender))
	}
	if weakness == attacker {
		return SuperEffective
	}
	return Neutral
}

// ComputeDamage floors attack*multiplier and never returns less than 1.
func ComputeDamage(attack int, attacker, defender model.PokemonType) int {
	damage := int(math.Floor(float64(attack) * DamageMultiplier(attacker, defender)))
	if damage < 1 {
		return 1
	}
	return damage
}

func mustBeKnown(t model.PokemonType) {
	if !t.Valid() {
		panic(fmt.Sprintf("rules: unknown attacker type %q", t))
	}
}
