package battle

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/rules"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// Phase represents the battle state machine's phases.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlacement
	PhasePlayerTurn
	PhaseForcedSelection
	PhaseBattleEnd
)

var phaseNames = map[Phase]string{
	PhaseSetup:           "SETUP",
	PhasePlacement:       "INITIAL_POKEMON_PLACEMENT",
	PhasePlayerTurn:      "PLAYER_TURN",
	PhaseForcedSelection: "FORCED_POKEMON_SELECTION",
	PhaseBattleEnd:       "BATTLE_END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// NoPlayer marks player-valued fields that hold no player.
const NoPlayer = -1

// Config carries the optional knobs for a battle. The zero value
// gives default rules, a time-seeded RNG, a fresh battle ID, and the
// default descriptor effect engine.
type Config struct {
	Rules    rules.BattleRules
	Seed     int64
	SeedSet  bool
	BattleID string
	Logger   *zap.Logger
	// Effects overrides the effect engine; nil selects the default
	// DescriptorEngine.
	Effects EffectEngine
}

// GameState orchestrates one battle: two player states, the phase
// state machine, action validation and execution, and the turn log.
// One instance is self-contained; independent battles may run on
// separate goroutines with no shared state.
type GameState struct {
	battleID string
	checker  *rules.Checker
	energy   *energy.Manager
	effects  EffectEngine
	players  [2]*PlayerState

	turnNumber    int
	currentPlayer int
	phase         Phase

	forcedSelectionPlayer int
	turnStartPending      bool // a status knockout interrupted advanceTurn
	winner                int
	isTie                 bool
	endReason             string
	endCondition          rules.WinCondition

	placed [2]bool // initial placement completed per player

	rng     *rand.Rand
	seed    int64
	seedSet bool

	turnLog   []LogEntry
	logger    *zap.Logger
	startedAt time.Time
	result    *Result
}

// New creates a battle over the two decks. Decks are copied; the
// battle does not start until StartBattle.
func New(deckA, deckB []*card.Card, cfg Config) *GameState {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	battleRules := cfg.Rules
	if battleRules.DeckSize == 0 {
		battleRules = rules.DefaultRules()
	}
	battleID := cfg.BattleID
	if battleID == "" {
		battleID = uuid.NewString()
	}
	seed := cfg.Seed
	if !cfg.SeedSet {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger = logger.With(zap.String("battle_id", battleID))

	g := &GameState{
		battleID:              battleID,
		checker:               rules.NewChecker(battleRules, logger),
		energy:                energy.NewManager(logger),
		effects:               cfg.Effects,
		forcedSelectionPlayer: NoPlayer,
		winner:                NoPlayer,
		phase:                 PhaseSetup,
		rng:                   rng,
		seed:                  seed,
		seedSet:               cfg.SeedSet,
		logger:                logger,
	}
	if g.effects == nil {
		g.effects = NewDescriptorEngine(logger)
	}
	g.players[0] = NewPlayerState(0, deckA, battleRules, rng, logger)
	g.players[1] = NewPlayerState(1, deckB, battleRules, rng, logger)
	return g
}

// StartBattle validates both decks, draws opening hands, and enters
// the placement phase. Any failure here is fatal: no battle proceeds.
func (g *GameState) StartBattle() error {
	if g.phase != PhaseSetup {
		return fmt.Errorf("battle already started (phase %s)", g.phase)
	}
	for i, p := range g.players {
		if ok, errs := g.checker.ValidateDeck(p.Deck); !ok {
			return fmt.Errorf("player %d deck invalid: %s", i, strings.Join(errs, "; "))
		}
	}
	for _, p := range g.players {
		if err := p.SetupInitialState(); err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}
	}
	g.phase = PhasePlacement
	g.currentPlayer = 0
	g.startedAt = time.Now()
	g.appendLog(NoPlayer, "battle_started", "")
	g.logger.Info("battle started",
		zap.Int64("seed", g.seed),
		zap.Bool("seed_set", g.seedSet),
	)
	return nil
}

// BattleID returns the battle's unique ID.
func (g *GameState) BattleID() string { return g.battleID }

// Phase returns the current phase.
func (g *GameState) Phase() Phase { return g.phase }

// TurnNumber returns the current turn (0 before turn 1 begins).
func (g *GameState) TurnNumber() int { return g.turnNumber }

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() int { return g.currentPlayer }

// Player returns the state for player 0 or 1.
func (g *GameState) Player(id int) *PlayerState {
	if id < 0 || id > 1 {
		return nil
	}
	return g.players[id]
}

// Opponent returns the state for the other player.
func (g *GameState) Opponent(id int) *PlayerState {
	return g.Player(1 - id)
}

// ForcedSelectionPlayer returns the player resolving a forced
// selection, or NoPlayer.
func (g *GameState) ForcedSelectionPlayer() int { return g.forcedSelectionPlayer }

// Winner returns the winning player, or NoPlayer.
func (g *GameState) Winner() int { return g.winner }

// IsTie reports whether the battle ended in a tie.
func (g *GameState) IsTie() bool { return g.isTie }

// IsBattleOver reports whether the state machine reached its terminal
// phase.
func (g *GameState) IsBattleOver() bool { return g.phase == PhaseBattleEnd }

// Checker exposes the rules checker for AI evaluation.
func (g *GameState) Checker() *rules.Checker { return g.checker }

// Energy exposes the energy manager for AI evaluation.
func (g *GameState) Energy() *energy.Manager { return g.energy }

// Seed returns the RNG seed the battle was created with.
func (g *GameState) Seed() int64 { return g.seed }

// PrizePoints implements rules.BattleAccessor.
func (g *GameState) PrizePoints(player int) int {
	return g.players[player].PrizePoints
}

// CanContinue implements rules.BattleAccessor.
func (g *GameState) CanContinue(player int) bool {
	return g.players[player].CanContinueBattle()
}

// finish freezes the battle outcome. Double-finishing is a defensive
// no-op: once a winner or tie is set it is never overwritten.
func (g *GameState) finish(cond rules.WinCondition, winner int, reason string) {
	if g.phase == PhaseBattleEnd {
		return
	}
	g.phase = PhaseBattleEnd
	g.endCondition = cond
	g.endReason = reason
	if winner == rules.NoWinner {
		g.isTie = true
	} else {
		g.winner = winner
	}
	g.forcedSelectionPlayer = NoPlayer
	g.appendLog(winner, "battle_end", reason)
	g.logger.Info("battle ended",
		zap.String("condition", string(cond)),
		zap.Int("winner", winner),
		zap.Bool("tie", g.isTie),
		zap.Int("turns", g.turnNumber),
	)
}

// checkWinAndMaybeFinish evaluates win conditions and freezes the
// outcome if one holds. Returns whether the battle ended.
func (g *GameState) checkWinAndMaybeFinish() bool {
	if g.phase == PhaseBattleEnd {
		return true
	}
	cond, winner, reason := g.checker.CheckWinCondition(g)
	if cond == rules.WinNone {
		return false
	}
	g.finish(cond, winner, reason)
	return true
}

// Result builds the battle result. It is created once, after the
// battle reaches its terminal phase; calling earlier returns nil.
func (g *GameState) Result() *Result {
	if g.phase != PhaseBattleEnd {
		return nil
	}
	if g.result != nil {
		return g.result
	}
	var deckTypes [2][]string
	for i, p := range g.players {
		for _, t := range p.EnergyTypes {
			deckTypes[i] = append(deckTypes[i], string(t))
		}
	}
	g.result = &Result{
		BattleID:        g.battleID,
		Winner:          g.winner,
		IsTie:           g.isTie,
		TotalTurns:      g.turnNumber,
		FinalScores:     [2]int{g.players[0].PrizePoints, g.players[1].PrizePoints},
		DurationSeconds: time.Since(g.startedAt).Seconds(),
		DeckTypes:       deckTypes,
		RNGSeed:         g.seed,
		SeedSet:         g.seedSet,
		EndReason:       g.endReason,
		Timestamp:       time.Now(),
		ActionLog:       g.TurnLog(),
	}
	return g.result
}
