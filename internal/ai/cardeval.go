package ai

import (
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// EvalContext is the situation a card is being evaluated for.
type EvalContext int

const (
	ContextOpeningHand EvalContext = iota
	ContextEarlyGame
	ContextMidGame
	ContextLateGame
	ContextBehindOnPrizes
	ContextAheadOnPrizes
	ContextLowHP
)

func (c EvalContext) String() string {
	switch c {
	case ContextOpeningHand:
		return "OPENING_HAND"
	case ContextEarlyGame:
		return "EARLY_GAME"
	case ContextMidGame:
		return "MID_GAME"
	case ContextLateGame:
		return "LATE_GAME"
	case ContextBehindOnPrizes:
		return "BEHIND_ON_PRIZES"
	case ContextAheadOnPrizes:
		return "AHEAD_ON_PRIZES"
	case ContextLowHP:
		return "LOW_HP"
	}
	return "UNKNOWN"
}

// CardRole is the coarse role a card plays in a deck.
type CardRole string

const (
	RoleEarlyAttacker CardRole = "early_attacker"
	RoleMidPowerhouse CardRole = "mid_powerhouse"
	RoleFinisher      CardRole = "finisher"
	RoleWall          CardRole = "wall"
	RoleSupport       CardRole = "support"
	RoleUtility       CardRole = "utility"
)

// CardEvaluation is the scored view of one card.
type CardEvaluation struct {
	BaseValue        float64 // 0–100, context-independent
	SituationalValue float64 // -50..+50, context-dependent
	TotalValue       float64
	Role             CardRole
	RecommendedIn    []EvalContext
}

// CardEvaluator scores cards for placement and mulligan-style
// decisions.
type CardEvaluator struct {
	logger *zap.Logger
}

// NewCardEvaluator creates a card evaluator.
func NewCardEvaluator(logger *zap.Logger) *CardEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardEvaluator{logger: logger}
}

// EvaluateCard scores a card in the given context. Pokémon are scored
// from HP tier, attack efficiency, energy curve, retreat efficiency,
// and effect utility; trainer cards take a simplified path.
func (e *CardEvaluator) EvaluateCard(c *card.Card, ctx EvalContext) CardEvaluation {
	if c == nil {
		return CardEvaluation{Role: RoleUtility}
	}
	if !c.IsPokemon() {
		return e.evaluateTrainer(c, ctx)
	}

	base := hpTierValue(c) +
		attackEfficiencyValue(c) +
		energyCurveValue(c) +
		retreatEfficiencyValue(c) +
		utilityValue(c)
	base = clamp(base, 0, 100)

	eval := CardEvaluation{
		BaseValue:        base,
		SituationalValue: clamp(situationalValue(c, ctx), -50, 50),
		Role:             classifyRole(c),
	}
	eval.TotalValue = eval.BaseValue + eval.SituationalValue
	eval.RecommendedIn = recommendedContexts(eval.Role)
	return eval
}

// hpTierValue maps printed HP onto a 0–30 band.
func hpTierValue(c *card.Card) float64 {
	switch {
	case c.HP >= 140:
		return 30
	case c.HP >= 100:
		return 24
	case c.HP >= 80:
		return 18
	case c.HP >= 60:
		return 12
	default:
		return 6
	}
}

// attackEfficiencyValue scores the best damage-per-energy ratio
// across attacks, banded to 0–30.
func attackEfficiencyValue(c *card.Card) float64 {
	best := 0.0
	for _, atk := range c.Attacks {
		cost := len(atk.Cost)
		if cost == 0 {
			cost = 1
		}
		ratio := float64(atk.Damage) / float64(cost)
		if ratio > best {
			best = ratio
		}
	}
	// 30 damage per energy is excellent in this format.
	return clamp(best, 0, 30)
}

// energyCurveValue rewards cards that can attack cheaply.
func energyCurveValue(c *card.Card) float64 {
	cheapest := -1
	for _, atk := range c.Attacks {
		if atk.Damage <= 0 {
			continue
		}
		if cheapest < 0 || len(atk.Cost) < cheapest {
			cheapest = len(atk.Cost)
		}
	}
	switch cheapest {
	case -1:
		return 0
	case 0, 1:
		return 15
	case 2:
		return 9
	default:
		return 3
	}
}

func retreatEfficiencyValue(c *card.Card) float64 {
	switch c.RetreatCost {
	case 0:
		return 10
	case 1:
		return 6
	case 2:
		return 3
	default:
		return 0
	}
}

// utilityValue rewards structured effects and abilities.
func utilityValue(c *card.Card) float64 {
	v := 0.0
	for _, atk := range c.Attacks {
		if card.HasKind(atk.Effects, card.EffectStatus) {
			v += 6
		}
		if card.HasKind(atk.Effects, card.EffectHeal) || card.HasKind(atk.Effects, card.EffectEnergyAccel) {
			v += 4
		}
	}
	if len(c.Abilities) > 0 {
		v += 5
	}
	return clamp(v, 0, 15)
}

func situationalValue(c *card.Card, ctx EvalContext) float64 {
	cheapest := 99
	bestDamage := c.MaxAttackDamage()
	for _, atk := range c.Attacks {
		if len(atk.Cost) < cheapest {
			cheapest = len(atk.Cost)
		}
	}

	switch ctx {
	case ContextOpeningHand, ContextEarlyGame:
		// Cheap, playable attackers matter most before boards develop.
		v := 0.0
		if c.Basic {
			v += 20
		}
		if cheapest <= 1 {
			v += 15
		}
		if c.IsEX() {
			v -= 10 // an early two-prize liability
		}
		return v
	case ContextMidGame:
		return float64(bestDamage) / 4
	case ContextLateGame:
		// Raw power closes games.
		return float64(bestDamage)/3 + hpTierValue(c)/2
	case ContextBehindOnPrizes:
		v := float64(bestDamage) / 3
		if c.IsEX() {
			v -= 15 // giving up two prizes loses the game from behind
		}
		return v
	case ContextAheadOnPrizes:
		if c.HP >= 100 {
			return 15 // durable bodies protect a lead
		}
		return 5
	case ContextLowHP:
		if c.RetreatCost == 0 {
			return 15
		}
		return float64(10 - 5*c.RetreatCost)
	}
	return 0
}

func classifyRole(c *card.Card) CardRole {
	cheapest := 99
	for _, atk := range c.Attacks {
		if atk.Damage > 0 && len(atk.Cost) < cheapest {
			cheapest = len(atk.Cost)
		}
	}
	best := c.MaxAttackDamage()

	switch {
	case best >= 90:
		return RoleFinisher
	case best >= 50 && cheapest >= 2:
		return RoleMidPowerhouse
	case best > 0 && cheapest <= 1:
		return RoleEarlyAttacker
	case c.HP >= 100:
		return RoleWall
	case len(c.Abilities) > 0:
		return RoleSupport
	default:
		return RoleUtility
	}
}

func recommendedContexts(role CardRole) []EvalContext {
	switch role {
	case RoleEarlyAttacker:
		return []EvalContext{ContextOpeningHand, ContextEarlyGame}
	case RoleMidPowerhouse:
		return []EvalContext{ContextMidGame}
	case RoleFinisher:
		return []EvalContext{ContextLateGame, ContextBehindOnPrizes}
	case RoleWall:
		return []EvalContext{ContextAheadOnPrizes, ContextLowHP}
	case RoleSupport:
		return []EvalContext{ContextEarlyGame, ContextMidGame}
	default:
		return []EvalContext{ContextMidGame}
	}
}

// evaluateTrainer is the simplified scoring path for trainer cards.
func (e *CardEvaluator) evaluateTrainer(c *card.Card, ctx EvalContext) CardEvaluation {
	base := 20.0
	for _, ab := range c.Abilities {
		for _, eff := range ab.Effects {
			switch eff.Kind {
			case card.EffectHeal:
				base += float64(eff.Amount) / 2
			case card.EffectDraw:
				base += float64(eff.Amount) * 8
			case card.EffectEnergyAccel:
				base += float64(eff.EnergyCount) * 10
			}
		}
	}
	eval := CardEvaluation{
		BaseValue: clamp(base, 0, 100),
		Role:      RoleSupport,
	}
	if ctx == ContextLowHP {
		for _, ab := range c.Abilities {
			if card.HasKind(ab.Effects, card.EffectHeal) {
				eval.SituationalValue = 20
			}
		}
	}
	eval.TotalValue = eval.BaseValue + eval.SituationalValue
	eval.RecommendedIn = recommendedContexts(RoleSupport)
	return eval
}
