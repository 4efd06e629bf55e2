package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
)

func TestNewStrategicAIUnknownPersonality(t *testing.T) {
	_, err := NewStrategicAI(0, 1, Personality("reckless"), zap.NewNop())
	assert.Error(t, err)
}

func TestAllPersonalitiesResolve(t *testing.T) {
	for _, p := range AllPersonalities {
		params, err := ParamsFor(p)
		require.NoError(t, err, p)
		assert.Greater(t, params.Aggression, 0.0, p)
		assert.LessOrEqual(t, params.Aggression, 1.0, p)
	}
}

func TestStrategicPlacesActiveFirst(t *testing.T) {
	g := newTestBattle(t, 5)
	s, err := NewStrategicAI(0, 5, PersonalityBalanced, zap.NewNop())
	require.NoError(t, err)

	a, err := s.ChooseAction(g)
	require.NoError(t, err)
	assert.Equal(t, battle.ActionPlacePokemon, a.Type)
	assert.Equal(t, battle.TargetActive, a.Details[battle.DetailTarget])

	ok, reason := g.ExecuteAction(a)
	require.True(t, ok, reason)
}

func TestStrategicTakesAvailableKnockout(t *testing.T) {
	g := readyBattle(t, 5)
	giveAttackEnergy(g, 0)
	g.Player(1).Active.CurrentHP = 10

	s, err := NewStrategicAI(0, 5, PersonalityConservative, zap.NewNop())
	require.NoError(t, err)

	// Even the most cautious profile takes a guaranteed knockout.
	a, err := s.ChooseAction(g)
	require.NoError(t, err)
	assert.Equal(t, battle.ActionAttack, a.Type)
}

func TestStrategicEndsTurnAfterAttack(t *testing.T) {
	g := readyBattle(t, 5)
	g.Player(0).AttackedThisTurn = true

	s, err := NewStrategicAI(0, 5, PersonalityAggressive, zap.NewNop())
	require.NoError(t, err)

	a, err := s.ChooseAction(g)
	require.NoError(t, err)
	assert.Equal(t, battle.ActionEndTurn, a.Type)
}

func TestStrategicForcedSelectionPicksReadyReplacement(t *testing.T) {
	g := readyBattle(t, 5)
	p := g.Player(0)
	p.Bench[1].AttachEnergy(energy.Fire)
	p.Bench[1].AttachEnergy(energy.Fire)

	s, err := NewStrategicAI(0, 5, PersonalityBalanced, zap.NewNop())
	require.NoError(t, err)

	a := s.chooseForcedSelection(g)
	assert.Equal(t, battle.ActionSelectActive, a.Type)
	assert.Equal(t, battle.SourceBench, a.Details[battle.DetailSource])
	assert.Equal(t, 1, a.Details[battle.DetailBenchIndex])
}

func TestStrategicAlwaysProducesLegalActions(t *testing.T) {
	for _, personality := range AllPersonalities {
		t.Run(string(personality), func(t *testing.T) {
			g := newTestBattle(t, 21)
			agents := make([]Agent, 2)
			for i := 0; i < 2; i++ {
				s, err := NewStrategicAI(i, 21, personality, zap.NewNop())
				require.NoError(t, err)
				agents[i] = s
			}
			for i := 0; i < 200 && !g.IsBattleOver(); i++ {
				actor := g.CurrentPlayer()
				if g.Phase() == battle.PhaseForcedSelection {
					actor = g.ForcedSelectionPlayer()
				}
				a, err := agents[actor].ChooseAction(g)
				require.NoError(t, err)
				ok, reason := g.ExecuteAction(a)
				require.True(t, ok, "action %s rejected: %s", a.Type, reason)
			}
		})
	}
}

func TestStrategicDeterministicAcrossRuns(t *testing.T) {
	run := func() []string {
		g := newTestBattle(t, 33)
		agents := make([]Agent, 2)
		for i := 0; i < 2; i++ {
			s, err := NewStrategicAI(i, 33, PersonalityBalanced, zap.NewNop())
			require.NoError(t, err)
			agents[i] = s
		}
		var log []string
		for i := 0; i < 100 && !g.IsBattleOver(); i++ {
			actor := g.CurrentPlayer()
			if g.Phase() == battle.PhaseForcedSelection {
				actor = g.ForcedSelectionPlayer()
			}
			a, err := agents[actor].ChooseAction(g)
			require.NoError(t, err)
			log = append(log, fmt.Sprintf("%s:%v", a.Type, a.Details))
			ok, reason := g.ExecuteAction(a)
			require.True(t, ok, reason)
		}
		return log
	}

	assert.Equal(t, run(), run())
}

func TestAttackStrategyMapping(t *testing.T) {
	balanced, err := ParamsFor(PersonalityBalanced)
	require.NoError(t, err)
	aggressive, err := ParamsFor(PersonalityAggressive)
	require.NoError(t, err)
	combo, err := ParamsFor(PersonalityCombo)
	require.NoError(t, err)

	// Board recommendation dominates.
	assert.Equal(t, AttackSecureKO, attackStrategyFor(balanced, StrategyCloseout))
	assert.Equal(t, AttackSetup, attackStrategyFor(aggressive, StrategySetupFocused))
	assert.Equal(t, AttackConserveEnergy, attackStrategyFor(combo, StrategyDefensive))

	// Otherwise the personality decides.
	assert.Equal(t, AttackSecureKO, attackStrategyFor(aggressive, StrategyBalanced))
	assert.Equal(t, AttackSetup, attackStrategyFor(combo, StrategyBalanced))
	assert.Equal(t, AttackBalanced, attackStrategyFor(balanced, StrategyBalanced))
}
