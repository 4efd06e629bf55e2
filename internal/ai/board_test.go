package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
)

func TestBoardEvaluationBounds(t *testing.T) {
	g := readyBattle(t, 7)
	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())

	for player := 0; player < 2; player++ {
		eval := e.Evaluate(g, player)
		assert.GreaterOrEqual(t, eval.Score, -100.0)
		assert.LessOrEqual(t, eval.Score, 100.0)
		assert.GreaterOrEqual(t, eval.ThreatMultiplier, 0.5)
		assert.LessOrEqual(t, eval.ThreatMultiplier, 2.0)
		assert.NotEmpty(t, eval.RecommendedStrategy)
		assert.NotEmpty(t, eval.KeyFactors)
	}
}

func TestBoardEvaluationSymmetricStart(t *testing.T) {
	g := readyBattle(t, 7)
	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())

	// Both sides have full-HP actives and no prizes, so neither side
	// should hold a large advantage.
	for player := 0; player < 2; player++ {
		eval := e.Evaluate(g, player)
		assert.InDelta(t, 0, eval.PrizePressure, 0.01)
		assert.InDelta(t, 0, eval.HPAdvantage, 0.5)
	}
}

func TestBoardEvaluationPrizeLead(t *testing.T) {
	g := readyBattle(t, 7)
	g.Player(0).PrizePoints = 2

	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())
	ahead := e.Evaluate(g, 0)
	behind := e.Evaluate(g, 1)

	assert.Greater(t, ahead.Score, behind.Score)
	assert.Greater(t, ahead.PrizePressure, 0.0)
	assert.Less(t, behind.PrizePressure, 0.0)
}

func TestBoardEvaluationThreatRaisesMultiplier(t *testing.T) {
	g := readyBattle(t, 7)

	// Fuel player 0's attack and wound the defender so the next attack
	// is lethal.
	giveAttackEnergy(g, 0)
	opp := g.Player(1)
	opp.Active.CurrentHP = 10

	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())
	eval := e.Evaluate(g, 0)
	assert.Greater(t, eval.ThreatMultiplier, 1.0)
	assert.Contains(t, eval.KeyFactors, "can knock out opposing active next attack")
}

func TestRecommendStrategyCloseout(t *testing.T) {
	g := readyBattle(t, 7)
	g.Player(0).PrizePoints = g.Checker().Rules().MaxPrizePoints - 1
	giveAttackEnergy(g, 0)
	g.Player(1).Active.CurrentHP = 10

	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())
	eval := e.Evaluate(g, 0)
	assert.Equal(t, StrategyCloseout, eval.RecommendedStrategy)
}

func TestRecommendStrategyComeback(t *testing.T) {
	g := readyBattle(t, 7)
	g.Player(1).PrizePoints = g.Checker().Rules().MaxPrizePoints - 1

	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())
	eval := e.Evaluate(g, 0)
	assert.Equal(t, StrategyComeback, eval.RecommendedStrategy)
}

func TestDetectGamePhase(t *testing.T) {
	g := readyBattle(t, 7)
	require.Equal(t, GameEarly, DetectGamePhase(g))

	g.Player(0).PrizePoints = 1
	assert.Equal(t, GameMid, DetectGamePhase(g))

	g.Player(0).PrizePoints = 2
	assert.Equal(t, GameLate, DetectGamePhase(g))
}

func TestTempoFavorsFueledSide(t *testing.T) {
	g := readyBattle(t, 7)
	giveAttackEnergy(g, 0)

	e := NewBoardEvaluator(DefaultBoardWeights(), zap.NewNop())
	eval := e.Evaluate(g, 0)
	assert.Greater(t, eval.Tempo, 0.0)
}

func TestCanKONextAttack(t *testing.T) {
	g := readyBattle(t, 7)
	assert.False(t, canKONextAttack(g, 0), "no energy attached yet")

	giveAttackEnergy(g, 0)
	g.Player(1).Active.CurrentHP = 10
	assert.True(t, canKONextAttack(g, 0))
}

func TestWeaknessCountsTowardEffectiveDamage(t *testing.T) {
	g := readyBattle(t, 7)
	giveAttackEnergy(g, 0)

	// Give the defender a weakness to the attacker's type.
	g.Player(1).Active.Card.Weakness = energy.Fire

	bonus := g.Checker().Rules().WeaknessBonus
	base := g.Player(0).Active.Card.Attacks[0].Damage
	assert.Equal(t, base+bonus, maxEffectiveDamage(g, 0))
}
