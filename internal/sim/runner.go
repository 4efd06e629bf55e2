// Package sim drives complete battles: a bounded single-battle driver
// loop and a parallel batch runner. Each battle gets its own engine
// and agents, so batches scale across goroutines with no shared
// mutable state.
package sim

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/ai"
	"github.com/willmusolf/pvpocket-sub001/internal/battle"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/rules"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// AgentFactory builds one agent per player per battle. The seed passed
// in is the battle seed; implementations derive per-player seeds.
type AgentFactory func(playerID int, seed int64, logger *zap.Logger) (ai.Agent, error)

// RuleBasedFactory returns a factory producing rule-based agents.
func RuleBasedFactory() AgentFactory {
	return func(playerID int, seed int64, logger *zap.Logger) (ai.Agent, error) {
		return ai.NewRuleBasedAI(playerID, seed, logger), nil
	}
}

// StrategicFactory returns a factory producing strategic agents with
// the given personality per player.
func StrategicFactory(personalities [2]ai.Personality) AgentFactory {
	return func(playerID int, seed int64, logger *zap.Logger) (ai.Agent, error) {
		return ai.NewStrategicAI(playerID, seed, personalities[playerID], logger)
	}
}

// Options bound the driver loop. The engine's own turn-limit tie still
// applies; these caps guarantee the loop itself terminates even
// against a misbehaving agent.
type Options struct {
	Rules             rules.BattleRules
	MaxTurns          int // hard loop cap, independent of the rules turn limit
	MaxActionsPerTurn int
	// MaxConsecutiveFailures is how many rejected or failed agent
	// decisions in a row are tolerated before an END_TURN is forced.
	MaxConsecutiveFailures int
}

// DefaultOptions returns the standard driver bounds.
func DefaultOptions() Options {
	return Options{
		Rules:                  rules.DefaultRules(),
		MaxTurns:               1000,
		MaxActionsPerTurn:      10,
		MaxConsecutiveFailures: 3,
	}
}

// Runner executes battles under the configured bounds.
type Runner struct {
	opts   Options
	logger *zap.Logger
}

// NewRunner creates a runner. Zero-valued option fields fall back to
// the defaults.
func NewRunner(opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultOptions()
	if opts.Rules.DeckSize == 0 {
		opts.Rules = def.Rules
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = def.MaxTurns
	}
	if opts.MaxActionsPerTurn <= 0 {
		opts.MaxActionsPerTurn = def.MaxActionsPerTurn
	}
	if opts.MaxConsecutiveFailures <= 0 {
		opts.MaxConsecutiveFailures = def.MaxConsecutiveFailures
	}
	return &Runner{opts: opts, logger: logger}
}

// Run plays one battle to completion and returns its result. The
// battle is deterministic for a given (decks, seed) when seedSet is
// true.
func (r *Runner) Run(deckA, deckB []*card.Card, seed int64, seedSet bool, factory AgentFactory) (*battle.Result, error) {
	g := battle.New(deckA, deckB, battle.Config{
		Rules:   r.opts.Rules,
		Seed:    seed,
		SeedSet: seedSet,
		Logger:  r.logger,
	})

	agents := make([]ai.Agent, 2)
	for i := 0; i < 2; i++ {
		agent, err := factory(i, g.Seed(), r.logger)
		if err != nil {
			return nil, fmt.Errorf("building agent %d: %w", i, err)
		}
		agents[i] = agent
	}

	if err := g.StartBattle(); err != nil {
		return nil, fmt.Errorf("starting battle: %w", err)
	}

	maxActions := r.opts.MaxTurns * r.opts.MaxActionsPerTurn
	actionsThisTurn := 0
	lastTurn := g.TurnNumber()
	failures := 0

	for total := 0; total < maxActions && !g.IsBattleOver(); total++ {
		if g.TurnNumber() != lastTurn {
			lastTurn = g.TurnNumber()
			actionsThisTurn = 0
		}

		actor := g.CurrentPlayer()
		if g.Phase() == battle.PhaseForcedSelection {
			actor = g.ForcedSelectionPlayer()
		}

		// Per-turn oscillation guard: force the turn over rather than
		// letting an agent spin.
		if actionsThisTurn >= r.opts.MaxActionsPerTurn || failures >= r.opts.MaxConsecutiveFailures {
			if !r.forceEndTurn(g, actor) {
				return nil, fmt.Errorf("battle %s stalled on turn %d", g.BattleID(), g.TurnNumber())
			}
			actionsThisTurn = 0
			failures = 0
			continue
		}

		action, err := agents[actor].ChooseAction(g)
		if err != nil {
			r.logger.Warn("agent failed to choose",
				zap.Int("player", actor),
				zap.Error(err),
			)
			failures++
			continue
		}
		ok, reason := g.ExecuteAction(action)
		actionsThisTurn++
		if !ok {
			r.logger.Warn("action rejected",
				zap.Int("player", actor),
				zap.String("action", string(action.Type)),
				zap.String("reason", reason),
			)
			failures++
			continue
		}
		failures = 0
	}

	result := g.Result()
	if result == nil {
		return nil, fmt.Errorf("battle %s did not finish within %d actions", g.BattleID(), maxActions)
	}
	return result, nil
}

// forceEndTurn pushes the battle forward when an agent stalls. During
// forced selection END_TURN is illegal, so the first legal replacement
// is submitted instead.
func (r *Runner) forceEndTurn(g *battle.GameState, actor int) bool {
	if g.Phase() == battle.PhaseForcedSelection {
		opts := g.Player(actor).GetSelectionOptions()
		if len(opts.BenchSlots) > 0 {
			ok, _ := g.ExecuteAction(battle.NewAction(battle.ActionSelectActive, actor, map[string]any{
				battle.DetailSource:     battle.SourceBench,
				battle.DetailBenchIndex: opts.BenchSlots[0],
			}))
			return ok
		}
		if len(opts.HandIndices) > 0 {
			ok, _ := g.ExecuteAction(battle.NewAction(battle.ActionSelectActive, actor, map[string]any{
				battle.DetailSource:    battle.SourceHand,
				battle.DetailHandIndex: opts.HandIndices[0],
			}))
			return ok
		}
		return false
	}
	ok, _ := g.ExecuteAction(battle.NewAction(battle.ActionEndTurn, actor, nil))
	return ok
}

// BatchStats aggregates a batch of battles.
type BatchStats struct {
	Battles    int
	Wins       [2]int
	Ties       int
	Errors     int
	TotalTurns int
	Results    []*battle.Result
}

// AverageTurns returns the mean turn count over completed battles.
func (s *BatchStats) AverageTurns() float64 {
	completed := len(s.Results)
	if completed == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(completed)
}

// RunBatch plays count battles across a worker pool. Battle i uses
// seed baseSeed+i when seedSet is true, so the whole batch is
// reproducible. workers <= 0 selects a single worker.
func (r *Runner) RunBatch(deckA, deckB []*card.Card, count, workers int, baseSeed int64, seedSet bool, factory AgentFactory) BatchStats {
	if workers <= 0 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	type outcome struct {
		result *battle.Result
		err    error
	}

	jobs := make(chan int64)
	outcomes := make(chan outcome, count)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				res, err := r.Run(deckA, deckB, seed, seedSet, factory)
				outcomes <- outcome{result: res, err: err}
			}
		}()
	}

	go func() {
		for i := 0; i < count; i++ {
			jobs <- baseSeed + int64(i)
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	stats := BatchStats{Battles: count}
	for out := range outcomes {
		if out.err != nil {
			r.logger.Warn("battle failed", zap.Error(out.err))
			stats.Errors++
			continue
		}
		stats.Results = append(stats.Results, out.result)
		stats.TotalTurns += out.result.TotalTurns
		if out.result.IsTie {
			stats.Ties++
		} else if out.result.Winner == 0 || out.result.Winner == 1 {
			stats.Wins[out.result.Winner]++
		}
	}
	return stats
}
