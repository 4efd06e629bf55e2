package battle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// testPokemon builds a basic Pokémon with a single attack costing one
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

// testDeck builds a legal 20-card deck: two copies each of ten
// distinct basics of the given type.
func testDeck(t energy.Type) []*card.Card {
	deck := make([]*card.Card, 0, 20)
	for i := 0; i < 10; i++ {
		c := testPokemon(fmt.Sprintf("%s-mon-%d", t, i), t, 60, 30)
		deck = append(deck, c, c)
	}
	return deck
}

// newTestBattle creates and starts a battle with a fixed seed.
func newTestBattle(t *testing.T, seed int64) *GameState {
	t.Helper()
	g := New(testDeck(energy.Fire), testDeck(energy.Water), Config{
		Seed:    seed,
		SeedSet: true,
		Logger:  zap.NewNop(),
	})
	require.NoError(t, g.StartBattle())
	return g
}

// mustExecute fails the test if the action is rejected.
func mustExecute(t *testing.T, g *GameState, a Action) {
	t.Helper()
	ok, reason := g.ExecuteAction(a)
	require.True(t, ok, "action %s rejected: %s", a.Type, reason)
}

// firstBasicInHand returns the index of the first basic Pokémon in
// the player's hand.
func firstBasicInHand(t *testing.T, p *PlayerState) int {
	t.Helper()
	for i, c := range p.Hand {
		if c.IsBasicPokemon() {
			return i
		}
	}
	t.Fatal("no basic Pokémon in hand")
	return -1
}

// placeBothActives drives the placement phase: each player places one
// active and finishes, leaving the battle at turn 1.
func placeBothActives(t *testing.T, g *GameState) {
	t.Helper()
	for player := 0; player < 2; player++ {
		idx := firstBasicInHand(t, g.Player(player))
		mustExecute(t, g, NewAction(ActionPlacePokemon, player, map[string]any{
			DetailHandIndex: idx,
			DetailTarget:    TargetActive,
		}))
		mustExecute(t, g, NewAction(ActionEndTurn, player, nil))
	}
	require.Equal(t, PhasePlayerTurn, g.Phase())
	require.Equal(t, 1, g.TurnNumber())
	require.Equal(t, 0, g.CurrentPlayer())
}

// turnOneBattle returns a battle advanced to turn 1 with both actives
// placed.
func turnOneBattle(t *testing.T, seed int64) *GameState {
	t.Helper()
	g := newTestBattle(t, seed)
	placeBothActives(t, g)
	return g
}
