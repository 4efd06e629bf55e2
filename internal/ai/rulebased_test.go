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

func TestRuleBasedPlacesActiveFirst(t *testing.T) {
	g := newTestBattle(t, 3)
	r := NewRuleBasedAI(0, 3, zap.NewNop())

	a, err := r.ChooseAction(g)
	require.NoError(t, err)
	assert.Equal(t, battle.ActionPlacePokemon, a.Type)
	assert.Equal(t, battle.TargetActive, a.Details[battle.DetailTarget])

	ok, reason := g.ExecuteAction(a)
	require.True(t, ok, reason)
	assert.NotNil(t, g.Player(0).Active)
}

func TestRuleBasedFillsBenchDuringPlacement(t *testing.T) {
	g := newTestBattle(t, 3)
	r := NewRuleBasedAI(0, 3, zap.NewNop())

	for i := 0; i < 10; i++ {
		a, err := r.ChooseAction(g)
		require.NoError(t, err)
		if a.Type == battle.ActionEndTurn {
			break
		}
		ok, reason := g.ExecuteAction(a)
		require.True(t, ok, reason)
	}
	assert.NotNil(t, g.Player(0).Active)
	assert.Greater(t, g.Player(0).BenchCount(), 0)
}

func TestRuleBasedAttachesEnergyBeforeAttacking(t *testing.T) {
	g := readyBattle(t, 3)
	r := NewRuleBasedAI(1, 3, zap.NewNop())

	// Hand control to player 1 so the turn-1 energy restriction does
	// not apply.
	require.True(t, g.CurrentPlayer() == 0)
	ok, reason := g.ExecuteAction(battle.NewAction(battle.ActionEndTurn, 0, nil))
	require.True(t, ok, reason)

	var attached, attacked bool
	for i := 0; i < 10 && g.CurrentPlayer() == 1; i++ {
		a, err := r.ChooseAction(g)
		require.NoError(t, err)
		switch a.Type {
		case battle.ActionAttachEnergy:
			attached = true
		case battle.ActionAttack:
			attacked = true
			assert.True(t, attached, "attack before attaching energy")
		}
		ok, reason := g.ExecuteAction(a)
		require.True(t, ok, "action %s rejected: %s", a.Type, reason)
	}
	assert.True(t, attached)
	assert.True(t, attacked, "one energy pays the test attack cost")
}

func TestRuleBasedEndsTurnAfterAttacking(t *testing.T) {
	g := readyBattle(t, 3)
	r := NewRuleBasedAI(0, 3, zap.NewNop())
	g.Player(0).AttackedThisTurn = true

	a, err := r.ChooseAction(g)
	require.NoError(t, err)
	assert.Equal(t, battle.ActionEndTurn, a.Type)
}

func TestRuleBasedForcedSelectionPrefersFueledBench(t *testing.T) {
	g := readyBattle(t, 3)
	p := g.Player(0)

	// Two bench Pokémon, one with energy.
	p.Bench[0] = battle.NewBattlePokemon(testPokemon("Plain", energy.Fire, 60, 30))
	p.Bench[1] = battle.NewBattlePokemon(testPokemon("Fueled", energy.Fire, 60, 30))
	p.Bench[1].AttachEnergy(energy.Fire)

	r := NewRuleBasedAI(0, 3, zap.NewNop())
	a := r.chooseForcedSelection(g)
	assert.Equal(t, battle.ActionSelectActive, a.Type)
	assert.Equal(t, battle.SourceBench, a.Details[battle.DetailSource])
	assert.Equal(t, 1, a.Details[battle.DetailBenchIndex])
}

func TestRuleBasedRejectsOpponentForcedSelection(t *testing.T) {
	g := readyBattle(t, 3)
	giveAttackEnergy(g, 0)
	opp := g.Player(1)
	opp.Active.CurrentHP = 10
	opp.Bench[0] = battle.NewBattlePokemon(testPokemon("Backup", energy.Water, 60, 30))

	ok, reason := g.ExecuteAction(battle.NewAction(battle.ActionAttack, 0, map[string]any{
		battle.DetailAttackIndex: 0,
	}))
	require.True(t, ok, reason)
	require.Equal(t, battle.PhaseForcedSelection, g.Phase())

	// The attacker cannot act during the defender's selection.
	r := NewRuleBasedAI(0, 3, zap.NewNop())
	_, err := r.ChooseAction(g)
	assert.Error(t, err)

	// The defender resolves it.
	d := NewRuleBasedAI(1, 3, zap.NewNop())
	a, err := d.ChooseAction(g)
	require.NoError(t, err)
	ok, reason = g.ExecuteAction(a)
	require.True(t, ok, reason)
	assert.Equal(t, battle.PhasePlayerTurn, g.Phase())
}

func TestRuleBasedDeterministicChoices(t *testing.T) {
	actions := func() []string {
		g := readyBattle(t, 9)
		agents := []*RuleBasedAI{
			NewRuleBasedAI(0, 9, zap.NewNop()),
			NewRuleBasedAI(1, 9, zap.NewNop()),
		}
		var log []string
		for i := 0; i < 40 && !g.IsBattleOver(); i++ {
			var actor int
			if g.Phase() == battle.PhaseForcedSelection {
				actor = g.ForcedSelectionPlayer()
			} else {
				actor = g.CurrentPlayer()
			}
			a, err := agents[actor].ChooseAction(g)
			require.NoError(t, err)
			log = append(log, fmt.Sprintf("%s:%v", a.Type, a.Details))
			ok, reason := g.ExecuteAction(a)
			require.True(t, ok, "action %s rejected: %s", a.Type, reason)
		}
		return log
	}

	first := actions()
	second := actions()
	assert.Equal(t, first, second)
}

func TestAntiLoopWindow(t *testing.T) {
	r := NewRuleBasedAI(0, 1, zap.NewNop())
	a := battle.NewAction(battle.ActionRetreat, 0, map[string]any{battle.DetailBenchIndex: 0})

	assert.False(t, r.looping(a))
	r.guarded(a)
	assert.False(t, r.looping(a))
	r.guarded(a)
	assert.True(t, r.looping(a), "two recent occurrences flag a loop")

	// The window is bounded; old signatures age out.
	other := battle.NewAction(battle.ActionEndTurn, 0, nil)
	for i := 0; i < recentActionWindow; i++ {
		r.guarded(other)
	}
	assert.False(t, r.looping(a))
}
