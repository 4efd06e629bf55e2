package card

import (
	"strconv"
	"strings"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
)

// CardType distinguishes the broad card categories the engine knows.
type CardType string

const (
	TypePokemon CardType = "POKEMON"
	TypeTrainer CardType = "TRAINER"
)

// StatusCondition is a status a Pokémon in play can carry.
type StatusCondition string

const (
	StatusNone      StatusCondition = ""
	StatusPoisoned  StatusCondition = "POISONED"
	StatusBurned    StatusCondition = "BURNED"
	StatusAsleep    StatusCondition = "ASLEEP"
	StatusParalyzed StatusCondition = "PARALYZED"
)

// Attack is one attack printed on a card. Cost and Effects are parsed
// once at ingestion; the engine never re-reads the raw strings.
type Attack struct {
	Name       string
	Cost       []energy.Type
	Damage     int    // parsed base damage
	RawDamage  string // as printed, e.g. "30+" or "50"
	EffectText string
	Effects    []EffectDescriptor
}

// Ability is a passive or activated ability printed on a card.
type Ability struct {
	Name       string
	EffectText string
	Effects    []EffectDescriptor
}

// Card is an immutable master-data record. The battle engine only
// reads it; per-battle state lives on BattlePokemon.
type Card struct {
	ID          string
	Name        string
	CardType    CardType
	EnergyType  energy.Type
	HP          int
	Attacks     []Attack
	Weakness    energy.Type
	RetreatCost int
	Abilities   []Ability
	Basic       bool
	EX          bool
}

// IsBasicPokemon reports whether the card can be played directly from
// hand as a Pokémon.
func (c *Card) IsBasicPokemon() bool {
	return c != nil && c.CardType == TypePokemon && c.Basic
}

// IsPokemon reports whether the card is a Pokémon card of any stage.
func (c *Card) IsPokemon() bool {
	return c != nil && c.CardType == TypePokemon
}

// IsEX reports whether the card is an "ex" variant, worth two prize
// points when knocked out.
func (c *Card) IsEX() bool {
	return c != nil && c.EX
}

// MaxAttackDamage returns the highest base damage across the card's
// attacks, or 0 for a card with none.
func (c *Card) MaxAttackDamage() int {
	max := 0
	for _, atk := range c.Attacks {
		if atk.Damage > max {
			max = atk.Damage
		}
	}
	return max
}

// ParseDamage extracts the numeric base damage from a printed damage
// value. Suffixes like "30+" or "20x" keep their numeric prefix;
// non-numeric text parses as 0.
func ParseDamage(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
