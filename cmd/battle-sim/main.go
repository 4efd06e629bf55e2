package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/willmusolf/pvpocket-sub001/internal/ai"
	"github.com/willmusolf/pvpocket-sub001/internal/battle/rules"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
	"github.com/willmusolf/pvpocket-sub001/internal/config"
	"github.com/willmusolf/pvpocket-sub001/internal/sim"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	deckA      = flag.String("deck-a", "", "deck name for player 0")
	deckB      = flag.String("deck-b", "", "deck name for player 1")
	battles    = flag.Int("battles", 0, "number of battles (overrides config)")
	seed       = flag.Int64("seed", 0, "base RNG seed; 0 means time-based")
	ruleBased  = flag.Bool("rule-based", false, "use the rule-based policy instead of strategic agents")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting battle simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	set, err := card.LoadSet(cfg.Data.CardFile, logger)
	if err != nil {
		return fmt.Errorf("loading cards: %w", err)
	}
	decks, err := set.LoadDecks(cfg.Data.DeckFile)
	if err != nil {
		return fmt.Errorf("loading decks: %w", err)
	}

	nameA, nameB, err := resolveDeckNames(decks)
	if err != nil {
		return err
	}
	logger.Info("decks selected",
		zap.String("deck_a", nameA),
		zap.String("deck_b", nameB),
	)

	count := cfg.Sim.Battles
	if *battles > 0 {
		count = *battles
	}
	baseSeed := cfg.Sim.Seed
	if *seed != 0 {
		baseSeed = *seed
	}

	factory, err := buildFactory(cfg)
	if err != nil {
		return err
	}

	runner := sim.NewRunner(sim.Options{
		Rules:                  battleRules(cfg.Battle),
		MaxTurns:               cfg.Sim.MaxTurns,
		MaxActionsPerTurn:      cfg.Sim.MaxActionsPerTurn,
		MaxConsecutiveFailures: cfg.Sim.MaxConsecutiveFailures,
	}, logger)

	stats := runner.RunBatch(decks[nameA], decks[nameB], count, cfg.Sim.Workers, baseSeed, baseSeed != 0, factory)

	for _, res := range stats.Results {
		outcome := "tie"
		if !res.IsTie {
			outcome = fmt.Sprintf("winner=%d", res.Winner)
		}
		logger.Info("battle finished",
			zap.String("battle_id", res.BattleID),
			zap.String("outcome", outcome),
			zap.Int("turns", res.TotalTurns),
			zap.Ints("scores", []int{res.FinalScores[0], res.FinalScores[1]}),
			zap.String("end_reason", res.EndReason),
		)
	}

	fmt.Printf("\n%s (%d battles)\n", "Results", stats.Battles)
	fmt.Printf("  %-24s %d\n", nameA+" wins:", stats.Wins[0])
	fmt.Printf("  %-24s %d\n", nameB+" wins:", stats.Wins[1])
	fmt.Printf("  %-24s %d\n", "ties:", stats.Ties)
	if stats.Errors > 0 {
		fmt.Printf("  %-24s %d\n", "errors:", stats.Errors)
	}
	fmt.Printf("  %-24s %.1f\n", "average turns:", stats.AverageTurns())
	return nil
}

// resolveDeckNames picks the two decks to battle: explicit flags win,
// otherwise the first two decks in the file.
func resolveDeckNames(decks map[string][]*card.Card) (string, string, error) {
	nameA, nameB := *deckA, *deckB
	if nameA != "" && nameB != "" {
		for _, n := range []string{nameA, nameB} {
			if _, ok := decks[n]; !ok {
				return "", "", fmt.Errorf("unknown deck %q", n)
			}
		}
		return nameA, nameB, nil
	}
	if len(decks) < 2 {
		return "", "", fmt.Errorf("need at least two decks, found %d", len(decks))
	}
	var names []string
	for n := range decks {
		names = append(names, n)
	}
	// Map order is random; only acceptable when the caller did not
	// specify decks.
	return names[0], names[1], nil
}

func buildFactory(cfg *config.Config) (sim.AgentFactory, error) {
	if *ruleBased {
		return sim.RuleBasedFactory(), nil
	}
	personalities := [2]ai.Personality{
		ai.Personality(cfg.Sim.PersonalityA),
		ai.Personality(cfg.Sim.PersonalityB),
	}
	for _, p := range personalities {
		if _, err := ai.ParamsFor(p); err != nil {
			return nil, err
		}
	}
	return sim.StrategicFactory(personalities), nil
}

func battleRules(bc config.BattleConfig) rules.BattleRules {
	r := rules.DefaultRules()
	if bc.DeckSize > 0 {
		r.DeckSize = bc.DeckSize
	}
	if bc.MaxPrizePoints > 0 {
		r.MaxPrizePoints = bc.MaxPrizePoints
	}
	if bc.MaxTurns > 0 {
		r.MaxTurns = bc.MaxTurns
	}
	if bc.WeaknessBonus > 0 {
		r.WeaknessBonus = bc.WeaknessBonus
	}
	return r
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
