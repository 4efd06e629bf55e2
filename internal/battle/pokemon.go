package battle

import (
	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// BattlePokemon wraps one Card in play with its battle-only state.
// Exactly one exists per placed Pokémon, owned by the PlayerState
// slot that holds it.
type BattlePokemon struct {
	Card      *card.Card
	CurrentHP int
	Energy    []energy.Type
	Status    card.StatusCondition
}

// NewBattlePokemon places a card into play at full HP.
func NewBattlePokemon(c *card.Card) *BattlePokemon {
	return &BattlePokemon{
		Card:      c,
		CurrentHP: c.HP,
	}
}

// ApplyDamage subtracts damage, flooring HP at zero, and returns the
// damage actually dealt.
func (bp *BattlePokemon) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	dealt := amount
	if dealt > bp.CurrentHP {
		dealt = bp.CurrentHP
	}
	bp.CurrentHP -= dealt
	return dealt
}

// Heal restores HP, capped at the card's printed maximum.
func (bp *BattlePokemon) Heal(amount int) {
	if amount <= 0 {
		return
	}
	bp.CurrentHP += amount
	if bp.CurrentHP > bp.Card.HP {
		bp.CurrentHP = bp.Card.HP
	}
}

// IsKnockedOut reports whether the Pokémon has zero HP.
func (bp *BattlePokemon) IsKnockedOut() bool {
	return bp.CurrentHP <= 0
}

// AttachEnergy adds one energy of the given type.
func (bp *BattlePokemon) AttachEnergy(t energy.Type) {
	bp.Energy = append(bp.Energy, t)
}

// DiscardEnergy removes up to n attached energy, first attached first
// discarded, and returns what was removed.
func (bp *BattlePokemon) DiscardEnergy(n int) []energy.Type {
	if n <= 0 {
		return nil
	}
	if n > len(bp.Energy) {
		n = len(bp.Energy)
	}
	discarded := make([]energy.Type, n)
	copy(discarded, bp.Energy[:n])
	bp.Energy = append([]energy.Type(nil), bp.Energy[n:]...)
	return discarded
}

// HPFraction returns remaining HP as a fraction of the printed HP.
func (bp *BattlePokemon) HPFraction() float64 {
	if bp.Card.HP <= 0 {
		return 0
	}
	return float64(bp.CurrentHP) / float64(bp.Card.HP)
}

// CanAct reports whether the Pokémon may attack or retreat; sleep and
// paralysis both block acting.
func (bp *BattlePokemon) CanAct() bool {
	return bp.Status != card.StatusAsleep && bp.Status != card.StatusParalyzed
}

// AttackOptions adapts the card's attacks for the energy suggestion
// heuristic.
func (bp *BattlePokemon) AttackOptions() []energy.AttackOption {
	opts := make([]energy.AttackOption, 0, len(bp.Card.Attacks))
	for _, atk := range bp.Card.Attacks {
		opts = append(opts, energy.AttackOption{
			Name:   atk.Name,
			Cost:   atk.Cost,
			Damage: atk.Damage,
		})
	}
	return opts
}
