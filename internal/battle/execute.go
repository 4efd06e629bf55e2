package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/rules"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// ExecuteAction validates and performs an action. The contract is
// strict two-phase: validation never mutates, execution assumes
// validity. An unexpected fault during execution is caught and
// reported as (false, reason), leaving state as of the last
// successful sub-step.
func (g *GameState) ExecuteAction(a Action) (ok bool, reason string) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("execution fault",
				zap.String("action", string(a.Type)),
				zap.Int("player", a.PlayerID),
				zap.Any("panic", r),
			)
			ok = false
			reason = fmt.Sprintf("execution fault: %v", r)
		}
	}()

	if valid, why := g.ValidateAction(a); !valid {
		return false, why
	}

	switch a.Type {
	case ActionAttachEnergy:
		return g.executeAttachEnergy(a)
	case ActionAttack:
		return g.executeAttack(a)
	case ActionPlacePokemon:
		return g.executePlacePokemon(a)
	case ActionRetreat:
		return g.executeRetreat(a)
	case ActionUseAbility:
		return g.executeUseAbility(a)
	case ActionEndTurn:
		return g.executeEndTurn(a)
	case ActionSelectActive:
		return g.executeSelectActive(a)
	default:
		return false, fmt.Sprintf("unknown action type %s", a.Type)
	}
}

func (g *GameState) executeAttachEnergy(a Action) (bool, string) {
	p := g.players[a.PlayerID]
	t := energy.Type(a.String(DetailEnergyType))
	if err := p.AttachEnergyToActive(t); err != nil {
		return false, err.Error()
	}
	g.appendLog(a.PlayerID, "attach_energy", fmt.Sprintf("%s to %s", t, p.Active.Card.Name))
	return true, ""
}

func (g *GameState) executeAttack(a Action) (bool, string) {
	attacker := g.players[a.PlayerID]
	defender := g.Opponent(a.PlayerID)
	idx := a.Int(DetailAttackIndex)
	atk := &attacker.Active.Card.Attacks[idx]

	base := g.checker.CalculateDamage(atk, attacker.Active.Card, defender.Active.Card)
	outcome := g.resolveAttackEffects(a.PlayerID, atk, attacker.Active, defender.Active, base)

	dealt := defender.Active.ApplyDamage(outcome.FinalDamage)
	g.appendLog(a.PlayerID, "attack", fmt.Sprintf("%s used %s for %d damage on %s",
		attacker.Active.Card.Name, atk.Name, dealt, defender.Active.Card.Name))

	g.applyAttackOutcome(a.PlayerID, outcome, attacker, defender)
	attacker.AttackedThisTurn = true

	// Knockouts: defender first so a battle-winning KO short-circuits
	// any recoil processing.
	if defender.Active != nil && defender.Active.IsKnockedOut() {
		g.handleKnockout(defender.ID)
	}
	if g.phase != PhaseBattleEnd && attacker.Active != nil && attacker.Active.IsKnockedOut() {
		g.handleKnockout(attacker.ID)
	}

	// Attacking ends the turn automatically unless the battle ended
	// or a forced selection has begun.
	if g.phase == PhasePlayerTurn {
		g.advanceTurn()
	}
	return true, ""
}

// resolveAttackEffects calls the effect engine, degrading to
// base-damage-only combat when the hook is absent or errors.
func (g *GameState) resolveAttackEffects(playerID int, atk *card.Attack, attacker, defender *BattlePokemon, base int) *EffectOutcome {
	if g.effects == nil {
		return &EffectOutcome{FinalDamage: base}
	}
	ctx := &BattleContext{
		BattleID:   g.battleID,
		TurnNumber: g.turnNumber,
		AttackerID: playerID,
		DefenderID: 1 - playerID,
		BaseDamage: base,
		RNG:        g.rng,
	}
	outcome, err := g.effects.ResolveAttack(ctx, atk, attacker, defender)
	if err != nil || outcome == nil {
		g.logger.Warn("effect engine failed, using base damage",
			zap.String("attack", atk.Name),
			zap.Error(err),
		)
		return &EffectOutcome{FinalDamage: base}
	}
	return outcome
}

func (g *GameState) applyAttackOutcome(playerID int, outcome *EffectOutcome, attacker, defender *PlayerState) {
	for _, status := range outcome.StatusEffects {
		if defender.Active != nil && !defender.Active.IsKnockedOut() {
			defender.Active.Status = status
			g.appendLog(playerID, "status_applied", fmt.Sprintf("%s is now %s", defender.Active.Card.Name, status))
		}
	}
	if outcome.HealAmount > 0 && attacker.Active != nil {
		attacker.Active.Heal(outcome.HealAmount)
		g.appendLog(playerID, "heal", fmt.Sprintf("%s healed %d", attacker.Active.Card.Name, outcome.HealAmount))
	}
	if outcome.RecoilDamage > 0 && attacker.Active != nil {
		attacker.Active.ApplyDamage(outcome.RecoilDamage)
		g.appendLog(playerID, "recoil", fmt.Sprintf("%s took %d recoil", attacker.Active.Card.Name, outcome.RecoilDamage))
	}
	for i := 0; i < outcome.DrawCards; i++ {
		attacker.DrawCard()
	}
	for _, t := range outcome.EnergyChanges {
		if attacker.Active != nil {
			attacker.Active.AttachEnergy(t)
		}
	}
	for _, heads := range outcome.CoinResults {
		g.appendLog(playerID, "coin_flip", map[bool]string{true: "heads", false: "tails"}[heads])
	}
}

func (g *GameState) executePlacePokemon(a Action) (bool, string) {
	p := g.players[a.PlayerID]
	idx := a.Int(DetailHandIndex)
	name := p.Hand[idx].Name

	var err error
	var target string
	if g.phase == PhasePlacement {
		target = a.String(DetailTarget)
	} else if p.Active == nil {
		target = TargetActive
	} else {
		target = TargetBench
	}
	if target == TargetActive {
		err = p.PlaceActiveFromHand(idx)
	} else {
		err = p.PlaceBenchFromHand(idx)
	}
	if err != nil {
		return false, err.Error()
	}
	g.appendLog(a.PlayerID, "place_pokemon", fmt.Sprintf("%s to %s", name, target))
	return true, ""
}

func (g *GameState) executeRetreat(a Action) (bool, string) {
	p := g.players[a.PlayerID]
	idx := a.Int(DetailBenchIndex)
	retreating := p.Active.Card.Name
	if err := p.RetreatActive(idx); err != nil {
		return false, err.Error()
	}
	g.appendLog(a.PlayerID, "retreat", fmt.Sprintf("%s out, %s in", retreating, p.Active.Card.Name))
	return true, ""
}

func (g *GameState) executeUseAbility(a Action) (bool, string) {
	p := g.players[a.PlayerID]
	idx := a.Int("ability_index")
	ability := p.Active.Card.Abilities[idx]
	g.appendLog(a.PlayerID, "use_ability", ability.Name)

	// Abilities run through the same descriptor model as attacks;
	// only self-targeted kinds apply here.
	for _, eff := range ability.Effects {
		switch eff.Kind {
		case card.EffectHeal:
			p.Active.Heal(eff.Amount)
		case card.EffectDraw:
			for i := 0; i < eff.Amount; i++ {
				p.DrawCard()
			}
		case card.EffectEnergyAccel:
			for i := 0; i < eff.EnergyCount; i++ {
				p.Active.AttachEnergy(eff.EnergyType)
			}
		}
	}
	return true, ""
}

func (g *GameState) executeEndTurn(a Action) (bool, string) {
	if g.phase == PhasePlacement {
		return g.finishPlacement(a.PlayerID)
	}
	g.advanceTurn()
	return true, ""
}

// finishPlacement marks the player's initial placement done. When
// both players have placed, turn 1 begins.
func (g *GameState) finishPlacement(playerID int) (bool, string) {
	g.placed[playerID] = true
	g.appendLog(playerID, "placement_done", "")
	if !g.placed[0] || !g.placed[1] {
		g.currentPlayer = 1 - g.currentPlayer
		return true, ""
	}
	g.phase = PhasePlayerTurn
	g.turnNumber = 1
	g.currentPlayer = 0
	g.players[0].ResetTurnFlags()
	g.players[0].DrawCard()
	g.appendLog(0, "turn_start", "turn 1")
	g.logger.Debug("placement complete, turn 1 begins")
	return true, ""
}

func (g *GameState) executeSelectActive(a Action) (bool, string) {
	p := g.players[a.PlayerID]
	var err error
	switch a.String(DetailSource) {
	case SourceBench:
		err = p.PromoteFromBench(a.Int(DetailBenchIndex))
	case SourceHand:
		err = p.PlaceActiveFromHand(a.Int(DetailHandIndex))
	default:
		err = fmt.Errorf("unknown selection source")
	}
	if err != nil {
		return false, err.Error()
	}
	g.appendLog(a.PlayerID, "select_active", p.Active.Card.Name)

	// The attacker retains the pending turn; play resumes with the
	// attacker's turn state intact.
	g.forcedSelectionPlayer = NoPlayer
	g.phase = PhasePlayerTurn

	// A selection that interrupted a turn hand-off completes it now.
	if g.turnStartPending {
		g.turnStartPending = false
		g.beginTurn()
	}
	return true, ""
}

// handleKnockout processes the knockout of ownerID's active Pokémon:
// award prize points immediately, check win conditions, then either
// end the battle or enter forced selection. current_player is
// deliberately left unchanged while the owner resolves replacement.
func (g *GameState) handleKnockout(ownerID int) {
	owner := g.players[ownerID]
	opponent := g.Opponent(ownerID)
	knocked := owner.Active

	points := g.checker.PrizePointsForKnockout(knocked.Card)
	opponent.PrizePoints += points
	owner.Active = nil

	g.appendLog(opponent.ID, "knockout", fmt.Sprintf("%s knocked out, %d prize point(s)", knocked.Card.Name, points))
	g.logger.Debug("knockout",
		zap.String("pokemon", knocked.Card.Name),
		zap.Int("owner", ownerID),
		zap.Int("points", points),
	)

	if g.checkWinAndMaybeFinish() {
		return
	}
	if g.phase == PhaseForcedSelection {
		// Both actives went down in the same exchange. The selection
		// queued first (the defender's, on an attack) takes
		// precedence; the other player refills the empty slot through
		// the active-first placement rule on their own turn.
		return
	}
	g.phase = PhaseForcedSelection
	g.forcedSelectionPlayer = ownerID
}

// advanceTurn hands the turn to the other player: process
// between-turns status ticks, then begin the incoming player's turn.
// A status knockout interrupts the hand-off; the draw and turn start
// wait until the forced selection resolves.
func (g *GameState) advanceTurn() {
	g.appendLog(g.currentPlayer, "end_turn", "")
	g.currentPlayer = 1 - g.currentPlayer
	g.turnNumber++

	g.processBetweenTurns()
	if g.phase == PhaseBattleEnd {
		return
	}
	if g.phase == PhaseForcedSelection {
		g.turnStartPending = true
		return
	}
	g.beginTurn()
}

// beginTurn starts the incoming player's turn: turn-limit check,
// flag reset, the one draw, and the turn_start log entry.
func (g *GameState) beginTurn() {
	if g.checker.Rules().MaxTurns > 0 && g.turnNumber > g.checker.Rules().MaxTurns {
		g.finish(rules.TieTurnLimit, rules.NoWinner, fmt.Sprintf("turn limit of %d reached", g.checker.Rules().MaxTurns))
		return
	}
	incoming := g.players[g.currentPlayer]
	incoming.ResetTurnFlags()
	incoming.DrawCard()
	g.appendLog(g.currentPlayer, "turn_start", fmt.Sprintf("turn %d", g.turnNumber))
}

// processBetweenTurns applies poison and burn ticks to both active
// Pokémon, flips for sleep wake-up on the incoming active only, and
// expires paralysis on the outgoing active at the end of the afflicted
// player's own turn.
func (g *GameState) processBetweenTurns() {
	// Outgoing player's active ticks first.
	order := [2]int{1 - g.currentPlayer, g.currentPlayer}
	for _, id := range order {
		p := g.players[id]
		if p.Active == nil || p.Active.IsKnockedOut() {
			continue
		}
		switch p.Active.Status {
		case card.StatusPoisoned:
			p.Active.ApplyDamage(10)
			g.appendLog(id, "poison_damage", p.Active.Card.Name)
		case card.StatusBurned:
			p.Active.ApplyDamage(20)
			g.appendLog(id, "burn_damage", p.Active.Card.Name)
			if g.rng.Intn(2) == 0 {
				p.Active.Status = card.StatusNone
				g.appendLog(id, "burn_cured", p.Active.Card.Name)
			}
		case card.StatusAsleep:
			// Only the incoming active flips to wake.
			if id == g.currentPlayer && g.rng.Intn(2) == 0 {
				p.Active.Status = card.StatusNone
				g.appendLog(id, "woke_up", p.Active.Card.Name)
			}
		}
		if p.Active.IsKnockedOut() {
			g.handleKnockout(id)
			if g.phase == PhaseBattleEnd {
				return
			}
		}
	}

	// Paralysis has kept the outgoing player from attacking or
	// retreating for a full turn; it wears off as that turn ends.
	outgoing := g.players[1-g.currentPlayer]
	if outgoing.Active != nil && outgoing.Active.Status == card.StatusParalyzed {
		outgoing.Active.Status = card.StatusNone
		g.appendLog(1-g.currentPlayer, "paralysis_cured", outgoing.Active.Card.Name)
	}
}
