package battle

import (
	"fmt"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
)

// ValidateAction checks whether an action is legal in the current
// state. It never mutates state and returns a human-readable reason
// on rejection.
func (g *GameState) ValidateAction(a Action) (bool, string) {
	switch g.phase {
	case PhaseSetup:
		return false, "battle has not started"
	case PhaseBattleEnd:
		return false, "battle has ended"
	case PhaseForcedSelection:
		return g.validateForcedSelection(a)
	case PhasePlacement:
		return g.validatePlacement(a)
	case PhasePlayerTurn:
		return g.validatePlayerTurn(a)
	default:
		return false, fmt.Sprintf("unknown phase %s", g.phase)
	}
}

func (g *GameState) validateForcedSelection(a Action) (bool, string) {
	if a.PlayerID != g.forcedSelectionPlayer {
		return false, fmt.Sprintf("only player %d may act during forced selection", g.forcedSelectionPlayer)
	}
	if a.Type != ActionSelectActive {
		// END_TURN included: nothing else is legal here.
		return false, "only SELECT_ACTIVE_POKEMON is legal during forced selection"
	}
	p := g.players[a.PlayerID]
	switch a.String(DetailSource) {
	case SourceBench:
		idx := a.Int(DetailBenchIndex)
		if idx < 0 || idx >= BenchSize || p.Bench[idx] == nil || p.Bench[idx].IsKnockedOut() {
			return false, fmt.Sprintf("no live bench Pokémon at slot %d", idx)
		}
	case SourceHand:
		idx := a.Int(DetailHandIndex)
		if idx < 0 || idx >= len(p.Hand) {
			return false, fmt.Sprintf("hand index %d out of range", idx)
		}
		if !p.Hand[idx].IsBasicPokemon() {
			return false, fmt.Sprintf("%q is not a basic Pokémon", p.Hand[idx].Name)
		}
	default:
		return false, "selection source must be \"bench\" or \"hand\""
	}
	return true, ""
}

func (g *GameState) validatePlacement(a Action) (bool, string) {
	if a.PlayerID != g.currentPlayer {
		return false, fmt.Sprintf("not player %d's placement turn", a.PlayerID)
	}
	p := g.players[a.PlayerID]
	switch a.Type {
	case ActionPlacePokemon:
		idx := a.Int(DetailHandIndex)
		if idx < 0 || idx >= len(p.Hand) {
			return false, fmt.Sprintf("hand index %d out of range", idx)
		}
		if !p.Hand[idx].IsBasicPokemon() {
			return false, fmt.Sprintf("%q is not a basic Pokémon", p.Hand[idx].Name)
		}
		switch a.String(DetailTarget) {
		case TargetActive:
			if p.Active != nil {
				return false, "active slot already occupied"
			}
		case TargetBench:
			if p.Active == nil {
				return false, "must place an active Pokémon first"
			}
			if !g.checker.CanPlaceOnBench(p.BenchCount()) {
				return false, "bench is full"
			}
		default:
			return false, "placement target must be \"active\" or \"bench\""
		}
		return true, ""
	case ActionEndTurn:
		if p.Active == nil {
			return false, "must place an active Pokémon before finishing placement"
		}
		return true, ""
	default:
		return false, fmt.Sprintf("%s is not legal during placement", a.Type)
	}
}

func (g *GameState) validatePlayerTurn(a Action) (bool, string) {
	if a.PlayerID != g.currentPlayer {
		return false, fmt.Sprintf("not player %d's turn", a.PlayerID)
	}
	p := g.players[a.PlayerID]

	// Attacking ends the turn: once attacked, only END_TURN is legal.
	if p.AttackedThisTurn && a.Type != ActionEndTurn {
		return false, "already attacked this turn, only END_TURN is legal"
	}

	switch a.Type {
	case ActionAttachEnergy:
		if p.EnergyAttachedThisTurn {
			return false, "energy already attached this turn"
		}
		if !g.checker.EnergyAttachAllowed(a.PlayerID, g.turnNumber) {
			return false, "player 0 cannot attach energy on turn 1"
		}
		if p.Active == nil {
			return false, "no active Pokémon to attach to"
		}
		t := energy.Type(a.String(DetailEnergyType))
		if !energy.IsValid(t) {
			return false, fmt.Sprintf("invalid energy type %q", a.String(DetailEnergyType))
		}
		return true, ""

	case ActionAttack:
		if p.Active == nil {
			return false, "no active Pokémon"
		}
		if !p.Active.CanAct() {
			return false, fmt.Sprintf("active Pokémon is %s and cannot attack", p.Active.Status)
		}
		idx := a.Int(DetailAttackIndex)
		if idx < 0 || idx >= len(p.Active.Card.Attacks) {
			return false, fmt.Sprintf("attack index %d out of range", idx)
		}
		atk := p.Active.Card.Attacks[idx]
		if !g.energy.CanPay(atk.Cost, p.Active.Energy) {
			return false, fmt.Sprintf("insufficient energy for %q", atk.Name)
		}
		opp := g.Opponent(a.PlayerID)
		if opp.Active == nil {
			return false, "opponent has no active Pokémon"
		}
		return true, ""

	case ActionPlacePokemon:
		idx := a.Int(DetailHandIndex)
		if idx < 0 || idx >= len(p.Hand) {
			return false, fmt.Sprintf("hand index %d out of range", idx)
		}
		if !p.Hand[idx].IsBasicPokemon() {
			return false, fmt.Sprintf("%q is not a basic Pokémon", p.Hand[idx].Name)
		}
		if p.Active == nil {
			// Active-first rule: the empty active slot is filled first.
			return true, ""
		}
		if !g.checker.CanPlaceOnBench(p.BenchCount()) {
			return false, "bench is full"
		}
		return true, ""

	case ActionRetreat:
		if p.Active == nil {
			return false, "no active Pokémon"
		}
		if !p.Active.CanAct() {
			return false, fmt.Sprintf("active Pokémon is %s and cannot retreat", p.Active.Status)
		}
		if !g.checker.CanRetreat(p.Active.Card.RetreatCost, len(p.Active.Energy)) {
			return false, "insufficient energy to retreat"
		}
		idx := a.Int(DetailBenchIndex)
		if idx < 0 || idx >= BenchSize || p.Bench[idx] == nil || p.Bench[idx].IsKnockedOut() {
			return false, fmt.Sprintf("no live bench Pokémon at slot %d", idx)
		}
		return true, ""

	case ActionUseAbility:
		if p.Active == nil {
			return false, "no active Pokémon"
		}
		idx := a.Int("ability_index")
		if idx < 0 || idx >= len(p.Active.Card.Abilities) {
			return false, fmt.Sprintf("ability index %d out of range", idx)
		}
		return true, ""

	case ActionEndTurn:
		return true, ""

	case ActionSelectActive:
		return false, "no forced selection in progress"

	default:
		return false, fmt.Sprintf("unknown action type %s", a.Type)
	}
}
