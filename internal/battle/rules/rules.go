package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// BattleRules holds the static rule parameters for a battle.
type BattleRules struct {
	DeckSize          int
	MaxCopiesPerName  int
	MaxBenchSize      int
	MaxHandSize       int
	MaxPrizePoints    int
	MaxTurns          int
	WeaknessBonus     int
	OpeningHandSize   int
	MaxMulliganTries  int
	// Player 0 cannot attach energy on turn 1.
	FirstPlayerEnergyLocked bool
}

// DefaultRules returns the standard rule set.
func DefaultRules() BattleRules {
	return BattleRules{
		DeckSize:                20,
		MaxCopiesPerName:        2,
		MaxBenchSize:            3,
		MaxHandSize:             10,
		MaxPrizePoints:          3,
		MaxTurns:                50,
		WeaknessBonus:           20,
		OpeningHandSize:         5,
		MaxMulliganTries:        10,
		FirstPlayerEnergyLocked: true,
	}
}

// WinCondition labels the outcome of a win-condition check.
type WinCondition string

const (
	WinNone           WinCondition = "NONE"
	WinPrizePoints    WinCondition = "PRIZE_POINTS"
	WinOpponentUnable WinCondition = "OPPONENT_UNABLE"
	TieBothUnable     WinCondition = "TIE_BOTH_UNABLE"
	TieTurnLimit      WinCondition = "TIE_TURN_LIMIT"
)

// NoWinner marks the winner slot of a check that produced no winner.
const NoWinner = -1

// BattleAccessor provides the engine state the checker needs without
// coupling it to the battle package.
type BattleAccessor interface {
	PrizePoints(player int) int
	CanContinue(player int) bool
	TurnNumber() int
}

// Checker performs stateless rule validation and win-condition
// evaluation against a BattleRules configuration.
type Checker struct {
	rules  BattleRules
	logger *zap.Logger
}

// NewChecker creates a rules checker.
func NewChecker(rules BattleRules, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{rules: rules, logger: logger}
}

// Rules returns the rule configuration the checker validates against.
func (c *Checker) Rules() BattleRules {
	return c.rules
}

// ValidateDeck checks deck legality: exact size, per-name copy limit,
// and at least one basic Pokémon. All violations are reported.
func (c *Checker) ValidateDeck(deck []*card.Card) (bool, []string) {
	var errs []string

	if len(deck) != c.rules.DeckSize {
		errs = append(errs, fmt.Sprintf("deck must contain exactly %d cards, has %d", c.rules.DeckSize, len(deck)))
	}

	counts := make(map[string]int)
	hasBasic := false
	for _, dc := range deck {
		if dc == nil {
			errs = append(errs, "deck contains a nil card")
			continue
		}
		counts[dc.Name]++
		if dc.IsBasicPokemon() {
			hasBasic = true
		}
	}
	for name, n := range counts {
		if n > c.rules.MaxCopiesPerName {
			errs = append(errs, fmt.Sprintf("too many copies of %q: %d (max %d)", name, n, c.rules.MaxCopiesPerName))
		}
	}
	if !hasBasic {
		errs = append(errs, "deck contains no basic Pokémon")
	}

	if len(errs) > 0 {
		c.logger.Debug("deck validation failed", zap.Strings("errors", errs))
	}
	return len(errs) == 0, errs
}

// CheckWinCondition evaluates the battle-ending conditions in order:
// prize threshold, continuation failure, turn limit.
// Returns the condition, the winning player (NoWinner for none or a
// tie), and a human-readable reason.
func (c *Checker) CheckWinCondition(b BattleAccessor) (WinCondition, int, string) {
	for p := 0; p < 2; p++ {
		if b.PrizePoints(p) >= c.rules.MaxPrizePoints {
			return WinPrizePoints, p, fmt.Sprintf("player %d reached %d prize points", p, c.rules.MaxPrizePoints)
		}
	}

	able0, able1 := b.CanContinue(0), b.CanContinue(1)
	switch {
	case !able0 && !able1:
		return TieBothUnable, NoWinner, "neither player can continue"
	case !able1:
		return WinOpponentUnable, 0, "player 1 cannot continue"
	case !able0:
		return WinOpponentUnable, 1, "player 0 cannot continue"
	}

	if c.rules.MaxTurns > 0 && b.TurnNumber() > c.rules.MaxTurns {
		return TieTurnLimit, NoWinner, fmt.Sprintf("turn limit of %d reached", c.rules.MaxTurns)
	}

	return WinNone, NoWinner, ""
}

// CalculateDamage computes attack damage: base damage plus the flat
// weakness bonus when the defender's weakness matches the attacker's
// energy type, floored at zero.
func (c *Checker) CalculateDamage(attack *card.Attack, attacker, defender *card.Card) int {
	if attack == nil {
		return 0
	}
	damage := attack.Damage
	if attacker != nil && defender != nil && defender.Weakness != "" &&
		defender.Weakness == attacker.EnergyType {
		damage += c.rules.WeaknessBonus
	}
	if damage < 0 {
		damage = 0
	}
	return damage
}

// PrizePointsForKnockout returns the points awarded for knocking out
// the given Pokémon: 2 for an ex variant, 1 otherwise.
func (c *Checker) PrizePointsForKnockout(knockedOut *card.Card) int {
	if knockedOut.IsEX() {
		return 2
	}
	return 1
}

// CanPlaceOnBench reports whether another Pokémon fits on a bench of
// the given occupancy.
func (c *Checker) CanPlaceOnBench(benchCount int) bool {
	return benchCount < c.rules.MaxBenchSize
}

// CanRetreat reports whether the attached energy covers the retreat
// cost. Retreat cost is paid with any energy types.
func (c *Checker) CanRetreat(retreatCost, attachedEnergy int) bool {
	return attachedEnergy >= retreatCost
}

// EnergyAttachAllowed reports whether a player may attach energy on
// the given turn. Player 0 is locked out on turn 1.
func (c *Checker) EnergyAttachAllowed(player, turnNumber int) bool {
	if c.rules.FirstPlayerEnergyLocked && player == 0 && turnNumber == 1 {
		return false
	}
	return true
}

// WeaknessApplies reports whether the attacker's energy type triggers
// the defender's weakness.
func WeaknessApplies(attackerType, defenderWeakness energy.Type) bool {
	return defenderWeakness != "" && attackerType == defenderWeakness
}
