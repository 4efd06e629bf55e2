package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/ai"
	"github.com/willmusolf/pvpocket-sub001/internal/battle"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

func simPokemon(name string, t energy.Type, hp, damage int) *card.Card {
	return &card.Card{
		ID:          name,
		Name:        name,
		CardType:    card.TypePokemon,
		EnergyType:  t,
		HP:          hp,
		Basic:       true,
		RetreatCost: 1,
		Attacks: []card.Attack{
			{Name: name + " Strike", Cost: []energy.Type{t}, Damage: damage, RawDamage: fmt.Sprintf("%d", damage)},
		},
	}
}

func simDeck(t energy.Type) []*card.Card {
	deck := make([]*card.Card, 0, 20)
	for i := 0; i < 10; i++ {
		c := simPokemon(fmt.Sprintf("%s-mon-%d", t, i), t, 60, 30)
		deck = append(deck, c, c)
	}
	return deck
}

func TestRunCompletesBoundedBattle(t *testing.T) {
	r := NewRunner(DefaultOptions(), zap.NewNop())

	res, err := r.Run(simDeck(energy.Fire), simDeck(energy.Water), 12345, true, RuleBasedFactory())
	require.NoError(t, err)

	assert.Greater(t, res.TotalTurns, 0)
	assert.Greater(t, res.DurationSeconds, 0.0)
	assert.NotEmpty(t, res.EndReason)

	m := res.ToMap()
	scores, ok := m["final_scores"].([]int)
	require.True(t, ok)
	assert.Len(t, scores, 2)
	assert.Equal(t, int64(12345), m["rng_seed"])
}

func TestRunDeterministicFingerprint(t *testing.T) {
	run := func() string {
		r := NewRunner(DefaultOptions(), zap.NewNop())
		res, err := r.Run(simDeck(energy.Fire), simDeck(energy.Water), 12345, true, RuleBasedFactory())
		require.NoError(t, err)
		return res.Fingerprint()
	}
	assert.Equal(t, run(), run())
}

func TestRunStrategicAgentsComplete(t *testing.T) {
	r := NewRunner(DefaultOptions(), zap.NewNop())
	factory := StrategicFactory([2]ai.Personality{ai.PersonalityAggressive, ai.PersonalityConservative})

	res, err := r.Run(simDeck(energy.Grass), simDeck(energy.Psychic), 777, true, factory)
	require.NoError(t, err)
	assert.Greater(t, res.TotalTurns, 0)
}

func TestRunRejectsInvalidDeck(t *testing.T) {
	r := NewRunner(DefaultOptions(), zap.NewNop())
	short := simDeck(energy.Fire)[:10]

	_, err := r.Run(short, simDeck(energy.Water), 1, true, RuleBasedFactory())
	assert.Error(t, err)
}

func TestRunForcesProgressAgainstStallingAgent(t *testing.T) {
	r := NewRunner(DefaultOptions(), zap.NewNop())

	// An agent that answers legally during placement and forced
	// selection but always retreats without energy afterward, which is
	// rejected every time.
	factory := func(playerID int, seed int64, logger *zap.Logger) (ai.Agent, error) {
		return &stallingAgent{
			inner:    ai.NewRuleBasedAI(playerID, seed, logger),
			playerID: playerID,
		}, nil
	}

	res, err := r.Run(simDeck(energy.Fire), simDeck(energy.Water), 42, true, factory)
	require.NoError(t, err)
	assert.True(t, res.IsTie, "no one ever attacks, so the turn limit resolves it")
}

type stallingAgent struct {
	inner    *ai.RuleBasedAI
	playerID int
}

func (s *stallingAgent) PlayerID() int { return s.playerID }

func (s *stallingAgent) ChooseAction(g *battle.GameState) (battle.Action, error) {
	if g.Phase() != battle.PhasePlayerTurn {
		return s.inner.ChooseAction(g)
	}
	return battle.NewAction(battle.ActionRetreat, s.playerID, map[string]any{
		battle.DetailBenchIndex: 0,
	}), nil
}

func TestRunBatchAggregates(t *testing.T) {
	r := NewRunner(DefaultOptions(), zap.NewNop())

	stats := r.RunBatch(simDeck(energy.Fire), simDeck(energy.Water), 6, 3, 100, true, RuleBasedFactory())
	assert.Equal(t, 6, stats.Battles)
	assert.Zero(t, stats.Errors)
	assert.Len(t, stats.Results, 6)
	assert.Equal(t, 6, stats.Wins[0]+stats.Wins[1]+stats.Ties)
	assert.Greater(t, stats.AverageTurns(), 0.0)
}
