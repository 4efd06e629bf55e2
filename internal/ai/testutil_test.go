package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// testPokemon builds a basic Pokémon with one attack costing one
// energy of its own type.
func testPokemon(name string, t energy.Type, hp, damage int) *card.Card {
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

func testDeck(t energy.Type) []*card.Card {
	deck := make([]*card.Card, 0, 20)
	for i := 0; i < 10; i++ {
		c := testPokemon(fmt.Sprintf("%s-mon-%d", t, i), t, 60, 30)
		deck = append(deck, c, c)
	}
	return deck
}

func newTestBattle(t *testing.T, seed int64) *battle.GameState {
	t.Helper()
	g := battle.New(testDeck(energy.Fire), testDeck(energy.Water), battle.Config{
		Seed:    seed,
		SeedSet: true,
		Logger:  zap.NewNop(),
	})
	require.NoError(t, g.StartBattle())
	return g
}

// readyBattle drives placement with two rule-based agents and returns
// the battle at turn 1.
func readyBattle(t *testing.T, seed int64) *battle.GameState {
	t.Helper()
	g := newTestBattle(t, seed)
	agents := []*RuleBasedAI{
		NewRuleBasedAI(0, seed, zap.NewNop()),
		NewRuleBasedAI(1, seed, zap.NewNop()),
	}
	for i := 0; i < 30 && g.Phase() == battle.PhasePlacement; i++ {
		a, err := agents[g.CurrentPlayer()].ChooseAction(g)
		require.NoError(t, err)
		ok, reason := g.ExecuteAction(a)
		require.True(t, ok, "placement action %s rejected: %s", a.Type, reason)
	}
	require.Equal(t, battle.PhasePlayerTurn, g.Phase())
	return g
}

// giveAttackEnergy attaches enough energy for the active's first
// attack.
func giveAttackEnergy(g *battle.GameState, playerID int) {
	p := g.Player(playerID)
	for _, cost := range p.Active.Card.Attacks[0].Cost {
		p.Active.AttachEnergy(cost)
	}
}
