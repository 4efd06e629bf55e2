package ai

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle"
)

// maxRetreatAttemptsPerTurn bounds rule-based retreating so the AI
// cannot shuffle its board forever.
const maxRetreatAttemptsPerTurn = 2

// recentActionWindow is the size of the rolling signature window used
// by the anti-loop guard.
const recentActionWindow = 6

// RuleBasedAI chooses actions from a fixed priority chain: forced
// selection, required active placement, bench placement, energy
// attachment, attack, bounded retreat, end turn. It is the fallback
// policy for StrategicAI and deterministic for a given seed.
type RuleBasedAI struct {
	playerID int
	rng      *rand.Rand
	logger   *zap.Logger

	recent          []string
	retreatTurn     int
	retreatAttempts int
}

// NewRuleBasedAI creates a rule-based agent. The RNG is seeded with
// seed+playerID so the two players' generators are decorrelated but
// reproducible.
func NewRuleBasedAI(playerID int, seed int64, logger *zap.Logger) *RuleBasedAI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleBasedAI{
		playerID: playerID,
		rng:      rand.New(rand.NewSource(seed + int64(playerID))),
		logger:   logger.With(zap.Int("ai_player", playerID)),
	}
}

// PlayerID implements Agent.
func (r *RuleBasedAI) PlayerID() int { return r.playerID }

// ChooseAction implements Agent.
func (r *RuleBasedAI) ChooseAction(g *battle.GameState) (battle.Action, error) {
	switch g.Phase() {
	case battle.PhasePlacement:
		return r.choosePlacement(g), nil
	case battle.PhaseForcedSelection:
		if g.ForcedSelectionPlayer() == r.playerID {
			return r.chooseForcedSelection(g), nil
		}
		return battle.Action{}, fmt.Errorf("player %d cannot act during opponent's forced selection", r.playerID)
	case battle.PhasePlayerTurn:
		return r.chooseTurnAction(g), nil
	default:
		return battle.Action{}, fmt.Errorf("no action available in phase %s", g.Phase())
	}
}

func (r *RuleBasedAI) choosePlacement(g *battle.GameState) battle.Action {
	p := g.Player(r.playerID)
	if p.Active == nil {
		if idx := r.bestBasicInHand(g); idx >= 0 {
			return battle.NewAction(battle.ActionPlacePokemon, r.playerID, map[string]any{
				battle.DetailHandIndex: idx,
				battle.DetailTarget:    battle.TargetActive,
			})
		}
	}
	// Fill one bench slot per call until the bench is full or the
	// hand runs out of basics.
	if p.Active != nil && g.Checker().CanPlaceOnBench(p.BenchCount()) {
		if idx := r.bestBasicInHand(g); idx >= 0 {
			return battle.NewAction(battle.ActionPlacePokemon, r.playerID, map[string]any{
				battle.DetailHandIndex: idx,
				battle.DetailTarget:    battle.TargetBench,
			})
		}
	}
	return battle.NewAction(battle.ActionEndTurn, r.playerID, nil)
}

// bestBasicInHand picks the basic Pokémon with the highest printed
// attack damage, HP as tie-break.
func (r *RuleBasedAI) bestBasicInHand(g *battle.GameState) int {
	p := g.Player(r.playerID)
	best, bestIdx := -1, -1
	for i, c := range p.Hand {
		if !c.IsBasicPokemon() {
			continue
		}
		score := c.MaxAttackDamage()*10 + c.HP
		if score > best {
			best = score
			bestIdx = i
		}
	}
	return bestIdx
}

func (r *RuleBasedAI) chooseForcedSelection(g *battle.GameState) battle.Action {
	p := g.Player(r.playerID)
	opts := p.GetSelectionOptions()

	// Prefer the bench Pokémon with the most attached energy, HP as
	// tie-break, so the replacement can fight soonest.
	bestSlot, bestScore := -1, -1
	for _, slot := range opts.BenchSlots {
		bp := p.Bench[slot]
		score := len(bp.Energy)*1000 + bp.CurrentHP
		if score > bestScore {
			bestScore = score
			bestSlot = slot
		}
	}
	if bestSlot >= 0 {
		return battle.NewAction(battle.ActionSelectActive, r.playerID, map[string]any{
			battle.DetailSource:     battle.SourceBench,
			battle.DetailBenchIndex: bestSlot,
		})
	}
	if len(opts.HandIndices) > 0 {
		return battle.NewAction(battle.ActionSelectActive, r.playerID, map[string]any{
			battle.DetailSource:    battle.SourceHand,
			battle.DetailHandIndex: opts.HandIndices[0],
		})
	}
	// No legal replacement; the engine's win check will resolve it.
	return battle.NewAction(battle.ActionEndTurn, r.playerID, nil)
}

func (r *RuleBasedAI) chooseTurnAction(g *battle.GameState) battle.Action {
	p := g.Player(r.playerID)

	if p.AttackedThisTurn {
		return battle.NewAction(battle.ActionEndTurn, r.playerID, nil)
	}
	if r.retreatTurn != g.TurnNumber() {
		r.retreatTurn = g.TurnNumber()
		r.retreatAttempts = 0
	}

	// Required active placement after a knockout recovered from hand.
	if p.Active == nil {
		if idx := r.bestBasicInHand(g); idx >= 0 {
			return r.guarded(battle.NewAction(battle.ActionPlacePokemon, r.playerID, map[string]any{
				battle.DetailHandIndex: idx,
			}))
		}
		return battle.NewAction(battle.ActionEndTurn, r.playerID, nil)
	}

	// Optional bench development.
	if g.Checker().CanPlaceOnBench(p.BenchCount()) {
		if idx := r.bestBasicInHand(g); idx >= 0 {
			a := battle.NewAction(battle.ActionPlacePokemon, r.playerID, map[string]any{
				battle.DetailHandIndex: idx,
			})
			if !r.looping(a) {
				return r.guarded(a)
			}
		}
	}

	// Energy attachment, guided by the unlock heuristic.
	if !p.EnergyAttachedThisTurn && g.Checker().EnergyAttachAllowed(r.playerID, g.TurnNumber()) {
		if t, ok := g.Energy().SuggestAttachment(p.EnergyTypes, p.Active.Energy, p.Active.AttackOptions(), r.rng); ok {
			a := battle.NewAction(battle.ActionAttachEnergy, r.playerID, map[string]any{
				battle.DetailEnergyType: string(t),
			})
			if !r.looping(a) {
				return r.guarded(a)
			}
		}
	}

	// Attack with the highest-damage payable attack.
	if p.Active.CanAct() {
		if idx := r.maxDamageAttack(g); idx >= 0 {
			return r.guarded(battle.NewAction(battle.ActionAttack, r.playerID, map[string]any{
				battle.DetailAttackIndex: idx,
			}))
		}
	}

	// Bounded retreat: low HP, or a bench Pokémon is better fueled.
	if r.retreatAttempts < maxRetreatAttemptsPerTurn && p.Active.CanAct() {
		if slot := r.retreatTarget(g); slot >= 0 {
			r.retreatAttempts++
			a := battle.NewAction(battle.ActionRetreat, r.playerID, map[string]any{
				battle.DetailBenchIndex: slot,
			})
			if !r.looping(a) {
				return r.guarded(a)
			}
		}
	}

	return battle.NewAction(battle.ActionEndTurn, r.playerID, nil)
}

func (r *RuleBasedAI) maxDamageAttack(g *battle.GameState) int {
	p := g.Player(r.playerID)
	opp := g.Opponent(r.playerID)
	if opp.Active == nil {
		return -1
	}
	best, bestIdx := -1, -1
	for _, i := range usableAttacks(g, r.playerID) {
		dmg := g.Checker().CalculateDamage(&p.Active.Card.Attacks[i], p.Active.Card, opp.Active.Card)
		if dmg > best {
			best = dmg
			bestIdx = i
		}
	}
	return bestIdx
}

// retreatTarget returns the bench slot to retreat into, or -1 when
// retreating is not worthwhile or not payable.
func (r *RuleBasedAI) retreatTarget(g *battle.GameState) int {
	p := g.Player(r.playerID)
	if !g.Checker().CanRetreat(p.Active.Card.RetreatCost, len(p.Active.Energy)) {
		return -1
	}
	lowHP := p.Active.HPFraction() < 0.2
	bestSlot, bestEnergy := -1, len(p.Active.Energy)
	for i, bp := range p.Bench {
		if bp == nil || bp.IsKnockedOut() {
			continue
		}
		if lowHP || len(bp.Energy) > bestEnergy {
			if len(bp.Energy) > bestEnergy || bestSlot < 0 {
				bestEnergy = len(bp.Energy)
				bestSlot = i
			}
		}
	}
	if bestSlot >= 0 && !lowHP && bestEnergy <= len(p.Active.Energy) {
		return -1
	}
	return bestSlot
}

// signature condenses an action for the anti-loop window.
func signature(a battle.Action) string {
	return fmt.Sprintf("%s:%v", a.Type, a.Details)
}

// looping reports whether the candidate action has already appeared
// twice in the recent window, which indicates oscillation between the
// same actions.
func (r *RuleBasedAI) looping(a battle.Action) bool {
	sig := signature(a)
	count := 0
	for _, s := range r.recent {
		if s == sig {
			count++
		}
	}
	return count >= 2
}

// guarded records the action in the rolling window before returning
// it.
func (r *RuleBasedAI) guarded(a battle.Action) battle.Action {
	r.recent = append(r.recent, signature(a))
	if len(r.recent) > recentActionWindow {
		r.recent = r.recent[len(r.recent)-recentActionWindow:]
	}
	return a
}
