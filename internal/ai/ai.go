// Package ai implements the decision stack for non-human players:
// a priority-chain RuleBasedAI and a three-stage strategic pipeline
// (board evaluation, card evaluation, attack selection) composed by
// StrategicAI.
package ai

import (
	"github.com/willmusolf/pvpocket-sub001/internal/battle"
)

// Agent produces one action per call against the current battle
// state. Implementations are deterministic for a given seed.
type Agent interface {
	PlayerID() int
	ChooseAction(g *battle.GameState) (battle.Action, error)
}

// GamePhase is the coarse stage of a battle, used to scale scoring
// weights.
type GamePhase int

const (
	GameEarly GamePhase = iota
	GameMid
	GameLate
)

func (p GamePhase) String() string {
	switch p {
	case GameEarly:
		return "EARLY"
	case GameMid:
		return "MID"
	case GameLate:
		return "LATE"
	}
	return "UNKNOWN"
}

// DetectGamePhase classifies the battle stage from turn number and
// prize counts.
func DetectGamePhase(g *battle.GameState) GamePhase {
	maxPrizes := g.Player(0).PrizePoints
	if p := g.Player(1).PrizePoints; p > maxPrizes {
		maxPrizes = p
	}
	switch {
	case maxPrizes >= 2 || g.TurnNumber() >= 12:
		return GameLate
	case maxPrizes >= 1 || g.TurnNumber() >= 5:
		return GameMid
	default:
		return GameEarly
	}
}

// usableAttacks returns the indices of the active Pokémon's attacks
// whose energy cost is payable right now.
func usableAttacks(g *battle.GameState, playerID int) []int {
	p := g.Player(playerID)
	if p.Active == nil {
		return nil
	}
	var usable []int
	for i, atk := range p.Active.Card.Attacks {
		if g.Energy().CanPay(atk.Cost, p.Active.Energy) {
			usable = append(usable, i)
		}
	}
	return usable
}

// maxEffectiveDamage returns the highest post-weakness damage the
// player's active can deal with currently payable attacks.
func maxEffectiveDamage(g *battle.GameState, playerID int) int {
	p := g.Player(playerID)
	opp := g.Opponent(playerID)
	if p.Active == nil || opp.Active == nil {
		return 0
	}
	best := 0
	for _, i := range usableAttacks(g, playerID) {
		dmg := g.Checker().CalculateDamage(&p.Active.Card.Attacks[i], p.Active.Card, opp.Active.Card)
		if dmg > best {
			best = dmg
		}
	}
	return best
}

// canKONextAttack reports whether the player's active can knock out
// the opponent's active with a currently payable attack.
func canKONextAttack(g *battle.GameState, playerID int) bool {
	opp := g.Opponent(playerID)
	if opp.Active == nil {
		return false
	}
	return maxEffectiveDamage(g, playerID) >= opp.Active.CurrentHP
}
