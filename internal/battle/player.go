package battle

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/rules"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// BenchSize is the number of bench slots per player.
const BenchSize = 3

// PlayerState owns one player's mutable battle resources: hand, deck
// draw pile, active Pokémon, bench, prize points, and per-turn flags.
type PlayerState struct {
	ID          int
	Hand        []*card.Card
	Bench       [BenchSize]*BattlePokemon
	Active      *BattlePokemon
	Deck        []*card.Card
	PrizePoints int

	EnergyAttachedThisTurn bool
	AttackedThisTurn       bool

	// EnergyTypes are the deck's candidate types for attachment,
	// fixed at battle start.
	EnergyTypes []energy.Type

	battleRules rules.BattleRules
	rng         *rand.Rand
	logger      *zap.Logger
}

// NewPlayerState creates a player for one battle. The deck slice is
// copied; the caller's slice is never mutated.
func NewPlayerState(id int, deck []*card.Card, battleRules rules.BattleRules, rng *rand.Rand, logger *zap.Logger) *PlayerState {
	if logger == nil {
		logger = zap.NewNop()
	}
	deckCopy := make([]*card.Card, len(deck))
	copy(deckCopy, deck)
	return &PlayerState{
		ID:          id,
		Deck:        deckCopy,
		EnergyTypes: card.DeckEnergyTypes(deck),
		battleRules: battleRules,
		rng:         rng,
		logger:      logger,
	}
}

// SetupInitialState shuffles the deck and draws the opening hand.
// A hand with no basic Pokémon is reshuffled into the deck and
// redrawn; after MaxMulliganTries failures setup fails and the battle
// cannot start.
func (p *PlayerState) SetupInitialState() error {
	p.Deck = append(p.Deck, p.Hand...)
	p.Hand = nil
	p.shuffleDeck()

	for attempt := 1; attempt <= p.battleRules.MaxMulliganTries; attempt++ {
		p.drawOpeningHand()
		if p.handHasBasic() {
			if attempt > 1 {
				p.logger.Debug("opening hand kept after mulligans",
					zap.Int("player", p.ID),
					zap.Int("attempts", attempt),
				)
			}
			return nil
		}
		// Mulligan: shuffle the hand back and redraw.
		p.Deck = append(p.Deck, p.Hand...)
		p.Hand = nil
		p.shuffleDeck()
	}
	return fmt.Errorf("player %d: no basic Pokémon after %d mulligan attempts", p.ID, p.battleRules.MaxMulliganTries)
}

func (p *PlayerState) shuffleDeck() {
	p.rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

func (p *PlayerState) drawOpeningHand() {
	n := p.battleRules.OpeningHandSize
	if n > len(p.Deck) {
		n = len(p.Deck)
	}
	p.Hand = append(p.Hand, p.Deck[:n]...)
	p.Deck = p.Deck[n:]
}

func (p *PlayerState) handHasBasic() bool {
	for _, c := range p.Hand {
		if c.IsBasicPokemon() {
			return true
		}
	}
	return false
}

// DrawCard pops the top card of the draw pile into the hand. An empty
// deck or a full hand is a logged no-op, never fatal.
func (p *PlayerState) DrawCard() *card.Card {
	if len(p.Deck) == 0 {
		p.logger.Warn("draw from empty deck skipped", zap.Int("player", p.ID))
		return nil
	}
	if len(p.Hand) >= p.battleRules.MaxHandSize {
		p.logger.Warn("draw skipped, hand full",
			zap.Int("player", p.ID),
			zap.Int("hand_size", len(p.Hand)),
		)
		return nil
	}
	drawn := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, drawn)
	return drawn
}

// removeFromHand removes and returns the card at the given hand index.
func (p *PlayerState) removeFromHand(idx int) (*card.Card, error) {
	if idx < 0 || idx >= len(p.Hand) {
		return nil, fmt.Errorf("hand index %d out of range (hand size %d)", idx, len(p.Hand))
	}
	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return c, nil
}

// PlaceActiveFromHand plays a basic Pokémon from hand into the empty
// active slot.
func (p *PlayerState) PlaceActiveFromHand(handIdx int) error {
	if p.Active != nil {
		return fmt.Errorf("active slot already occupied")
	}
	if handIdx < 0 || handIdx >= len(p.Hand) {
		return fmt.Errorf("hand index %d out of range", handIdx)
	}
	if !p.Hand[handIdx].IsBasicPokemon() {
		return fmt.Errorf("%q is not a basic Pokémon", p.Hand[handIdx].Name)
	}
	c, err := p.removeFromHand(handIdx)
	if err != nil {
		return err
	}
	p.Active = NewBattlePokemon(c)
	return nil
}

// PlaceBenchFromHand plays a basic Pokémon from hand onto the first
// open bench slot. The active slot must already be filled.
func (p *PlayerState) PlaceBenchFromHand(handIdx int) error {
	if p.Active == nil {
		return fmt.Errorf("must place an active Pokémon first")
	}
	if handIdx < 0 || handIdx >= len(p.Hand) {
		return fmt.Errorf("hand index %d out of range", handIdx)
	}
	if !p.Hand[handIdx].IsBasicPokemon() {
		return fmt.Errorf("%q is not a basic Pokémon", p.Hand[handIdx].Name)
	}
	slot := p.firstOpenBenchSlot()
	if slot < 0 {
		return fmt.Errorf("bench is full")
	}
	c, err := p.removeFromHand(handIdx)
	if err != nil {
		return err
	}
	p.Bench[slot] = NewBattlePokemon(c)
	return nil
}

func (p *PlayerState) firstOpenBenchSlot() int {
	for i, slot := range p.Bench {
		if slot == nil {
			return i
		}
	}
	return -1
}

// BenchCount returns the number of occupied bench slots.
func (p *PlayerState) BenchCount() int {
	n := 0
	for _, slot := range p.Bench {
		if slot != nil {
			n++
		}
	}
	return n
}

// RetreatActive swaps the active Pokémon with the bench Pokémon at
// benchIdx, discarding attached energy equal to the retreat cost,
// first attached first discarded.
func (p *PlayerState) RetreatActive(benchIdx int) error {
	if p.Active == nil {
		return fmt.Errorf("no active Pokémon to retreat")
	}
	if benchIdx < 0 || benchIdx >= BenchSize || p.Bench[benchIdx] == nil {
		return fmt.Errorf("no bench Pokémon at slot %d", benchIdx)
	}
	cost := p.Active.Card.RetreatCost
	if len(p.Active.Energy) < cost {
		return fmt.Errorf("insufficient energy to retreat: need %d, have %d", cost, len(p.Active.Energy))
	}
	p.Active.DiscardEnergy(cost)
	p.Active, p.Bench[benchIdx] = p.Bench[benchIdx], p.Active
	return nil
}

// PromoteFromBench moves the bench Pokémon at benchIdx into the empty
// active slot. Used during forced selection.
func (p *PlayerState) PromoteFromBench(benchIdx int) error {
	if p.Active != nil {
		return fmt.Errorf("active slot already occupied")
	}
	if benchIdx < 0 || benchIdx >= BenchSize || p.Bench[benchIdx] == nil {
		return fmt.Errorf("no bench Pokémon at slot %d", benchIdx)
	}
	p.Active = p.Bench[benchIdx]
	p.Bench[benchIdx] = nil
	return nil
}

// AttachEnergyToActive attaches one energy of the given type to the
// active Pokémon.
func (p *PlayerState) AttachEnergyToActive(t energy.Type) error {
	if p.Active == nil {
		return fmt.Errorf("no active Pokémon")
	}
	p.Active.AttachEnergy(t)
	p.EnergyAttachedThisTurn = true
	return nil
}

// CanContinueBattle reports whether the player still has a live
// Pokémon in play or a basic Pokémon playable from hand. Used for
// loss detection.
func (p *PlayerState) CanContinueBattle() bool {
	if p.Active != nil && !p.Active.IsKnockedOut() {
		return true
	}
	for _, slot := range p.Bench {
		if slot != nil && !slot.IsKnockedOut() {
			return true
		}
	}
	return p.handHasBasic()
}

// SelectionOptions bundles the legal replacement choices during
// forced selection: live bench slots and basic Pokémon hand indices.
type SelectionOptions struct {
	BenchSlots  []int
	HandIndices []int
}

// GetSelectionOptions returns the legal choices for replacing a
// knocked-out active Pokémon.
func (p *PlayerState) GetSelectionOptions() SelectionOptions {
	var opts SelectionOptions
	for i, slot := range p.Bench {
		if slot != nil && !slot.IsKnockedOut() {
			opts.BenchSlots = append(opts.BenchSlots, i)
		}
	}
	for i, c := range p.Hand {
		if c.IsBasicPokemon() {
			opts.HandIndices = append(opts.HandIndices, i)
		}
	}
	return opts
}

// ResetTurnFlags clears the per-turn booleans at turn start.
func (p *PlayerState) ResetTurnFlags() {
	p.EnergyAttachedThisTurn = false
	p.AttackedThisTurn = false
}
