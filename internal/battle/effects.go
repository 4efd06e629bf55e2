package battle

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// BattleContext carries the battle-wide context an effect resolution
// needs, passed explicitly instead of reached through back-references.
type BattleContext struct {
	BattleID   string
	TurnNumber int
	AttackerID int
	DefenderID int
	// BaseDamage is the attack's damage after weakness, before
	// effect modification.
	BaseDamage int
	RNG        *rand.Rand
}

// EffectOutcome is what an effect engine reports back for one attack.
type EffectOutcome struct {
	FinalDamage       int
	StatusEffects     []card.StatusCondition
	HealAmount        int
	RecoilDamage      int
	DrawCards         int
	EnergyChanges     []energy.Type // attached to the attacker
	CoinResults       []bool
	AdditionalEffects []string
}

// EffectEngine resolves attack effects. The engine is an optional
// collaborator: when absent, combat degrades to base damage only.
type EffectEngine interface {
	ResolveAttack(ctx *BattleContext, attack *card.Attack, attacker, defender *BattlePokemon) (*EffectOutcome, error)
}

// DescriptorEngine is the default EffectEngine. It interprets the
// structured EffectDescriptors parsed at card ingestion; it never
// reads raw effect text.
type DescriptorEngine struct {
	logger *zap.Logger
}

// NewDescriptorEngine creates the default effect engine.
func NewDescriptorEngine(logger *zap.Logger) *DescriptorEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DescriptorEngine{logger: logger}
}

// ResolveAttack applies each descriptor on the attack in order.
// Coin flips draw from the context RNG so replays stay deterministic.
func (e *DescriptorEngine) ResolveAttack(ctx *BattleContext, attack *card.Attack, attacker, defender *BattlePokemon) (*EffectOutcome, error) {
	outcome := &EffectOutcome{FinalDamage: ctx.BaseDamage}

	for _, eff := range attack.Effects {
		switch eff.Kind {
		case card.EffectStatus:
			outcome.StatusEffects = append(outcome.StatusEffects, eff.Condition)
		case card.EffectHeal:
			outcome.HealAmount += eff.Amount
		case card.EffectRecoil:
			outcome.RecoilDamage += eff.Amount
		case card.EffectDraw:
			outcome.DrawCards += eff.Amount
		case card.EffectCoinFlip:
			heads := ctx.RNG.Intn(2) == 0
			outcome.CoinResults = append(outcome.CoinResults, heads)
			if heads && eff.Amount > 0 {
				outcome.FinalDamage += eff.Amount
			}
			if heads {
				outcome.AdditionalEffects = append(outcome.AdditionalEffects, "coin_heads")
			} else {
				outcome.AdditionalEffects = append(outcome.AdditionalEffects, "coin_tails")
			}
		case card.EffectEnergyAccel:
			for i := 0; i < eff.EnergyCount; i++ {
				outcome.EnergyChanges = append(outcome.EnergyChanges, eff.EnergyType)
			}
		default:
			e.logger.Debug("unhandled effect kind skipped",
				zap.String("kind", string(eff.Kind)),
				zap.String("attack", attack.Name),
			)
		}
	}

	return outcome, nil
}
