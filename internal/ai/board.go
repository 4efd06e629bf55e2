package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle"
)

// Strategy labels emitted by the board evaluator.
const (
	StrategyAggressive     = "aggressive"
	StrategyDefensive      = "defensive"
	StrategySetupFocused   = "setup_focused"
	StrategyStabilizeBoard = "stabilize_board"
	StrategyBalanced       = "balanced"
	StrategyAdvantage      = "advantage"
	StrategyCloseout       = "closeout"
	StrategyComeback       = "comeback"
)

// BoardWeights are the immutable weights for the five position
// sub-scores, fixed at evaluator construction.
type BoardWeights struct {
	HPAdvantage   float64
	PrizePressure float64
	BoardControl  float64
	HandAdvantage float64
	Tempo         float64
}

// DefaultBoardWeights returns the standard weighting.
func DefaultBoardWeights() BoardWeights {
	return BoardWeights{
		HPAdvantage:   30,
		PrizePressure: 35,
		BoardControl:  15,
		HandAdvantage: 8,
		Tempo:         12,
	}
}

// BoardEvaluation is the scored view of a position from one player's
// perspective.
type BoardEvaluation struct {
	Score float64 // bounded to [-100, 100], positive favors the player

	HPAdvantage   float64
	PrizePressure float64
	BoardControl  float64
	HandAdvantage float64
	Tempo         float64

	ThreatMultiplier    float64 // 0.5–2.0
	GamePhase           GamePhase
	RecommendedStrategy string
	KeyFactors          []string
}

// BoardEvaluator scores battle positions. Weights are per-instance
// configuration, never shared mutable state.
type BoardEvaluator struct {
	weights BoardWeights
	logger  *zap.Logger
}

// NewBoardEvaluator creates a board evaluator with the given weights.
func NewBoardEvaluator(weights BoardWeights, logger *zap.Logger) *BoardEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardEvaluator{weights: weights, logger: logger}
}

// Evaluate scores the position for the given player. Sub-scores are
// each in [-1, 1]; their weighted sum is modulated by the threat and
// game-phase multipliers and clamped to [-100, 100].
func (e *BoardEvaluator) Evaluate(g *battle.GameState, playerID int) BoardEvaluation {
	me := g.Player(playerID)
	opp := g.Opponent(playerID)

	eval := BoardEvaluation{
		HPAdvantage:   hpAdvantage(me, opp),
		PrizePressure: prizePressure(g, me, opp),
		BoardControl:  boardControl(me, opp),
		HandAdvantage: handAdvantage(me, opp),
		Tempo:         tempo(g, playerID),
		GamePhase:     DetectGamePhase(g),
	}

	raw := eval.HPAdvantage*e.weights.HPAdvantage +
		eval.PrizePressure*e.weights.PrizePressure +
		eval.BoardControl*e.weights.BoardControl +
		eval.HandAdvantage*e.weights.HandAdvantage +
		eval.Tempo*e.weights.Tempo

	eval.ThreatMultiplier = threatMultiplier(g, playerID)
	raw *= eval.ThreatMultiplier
	raw *= phaseMultiplier(eval.GamePhase)

	eval.Score = clamp(raw, -100, 100)
	eval.RecommendedStrategy = e.recommendStrategy(g, playerID, &eval)
	eval.KeyFactors = keyFactors(g, playerID, &eval)

	e.logger.Debug("board evaluated",
		zap.Int("player", playerID),
		zap.Float64("score", eval.Score),
		zap.String("strategy", eval.RecommendedStrategy),
	)
	return eval
}

// hpAdvantage compares total remaining HP fractions across each
// side's Pokémon in play.
func hpAdvantage(me, opp *battle.PlayerState) float64 {
	return clamp(totalHPFraction(me)-totalHPFraction(opp), -1, 1)
}

func totalHPFraction(p *battle.PlayerState) float64 {
	total, count := 0.0, 0
	if p.Active != nil {
		total += p.Active.HPFraction()
		count++
	}
	for _, bp := range p.Bench {
		if bp != nil {
			total += bp.HPFraction()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// prizePressure compares progress toward the prize threshold.
func prizePressure(g *battle.GameState, me, opp *battle.PlayerState) float64 {
	max := float64(g.Checker().Rules().MaxPrizePoints)
	if max == 0 {
		return 0
	}
	return clamp((float64(me.PrizePoints)-float64(opp.PrizePoints))/max, -1, 1)
}

// boardControl compares developed board presence.
func boardControl(me, opp *battle.PlayerState) float64 {
	return clamp(float64(boardSize(me)-boardSize(opp))/float64(battle.BenchSize+1), -1, 1)
}

func boardSize(p *battle.PlayerState) int {
	n := 0
	if p.Active != nil {
		n++
	}
	return n + p.BenchCount()
}

// handAdvantage compares hand sizes.
func handAdvantage(me, opp *battle.PlayerState) float64 {
	return clamp(float64(len(me.Hand)-len(opp.Hand))/5.0, -1, 1)
}

// tempo compares ready damage output: who hits harder right now.
func tempo(g *battle.GameState, playerID int) float64 {
	mine := float64(maxEffectiveDamage(g, playerID))
	theirs := float64(maxEffectiveDamage(g, 1-playerID))
	if mine == 0 && theirs == 0 {
		return 0
	}
	return clamp((mine-theirs)/100.0, -1, 1)
}

// threatMultiplier scales the score by next-turn knockout threats on
// either side, bounded to [0.5, 2.0].
func threatMultiplier(g *battle.GameState, playerID int) float64 {
	m := 1.0
	if canKONextAttack(g, playerID) {
		m += 0.6
	}
	if canKONextAttack(g, 1-playerID) {
		m -= 0.5
	}
	return clamp(m, 0.5, 2.0)
}

func phaseMultiplier(phase GamePhase) float64 {
	switch phase {
	case GameEarly:
		return 0.9
	case GameLate:
		return 1.2
	default:
		return 1.0
	}
}

func (e *BoardEvaluator) recommendStrategy(g *battle.GameState, playerID int, eval *BoardEvaluation) string {
	me := g.Player(playerID)
	opp := g.Opponent(playerID)
	rulesMax := g.Checker().Rules().MaxPrizePoints

	switch {
	case me.PrizePoints == rulesMax-1 && canKONextAttack(g, playerID):
		return StrategyCloseout
	case opp.PrizePoints >= rulesMax-1 && me.PrizePoints < opp.PrizePoints:
		return StrategyComeback
	case canKONextAttack(g, 1-playerID) && eval.Score < 0:
		return StrategyStabilizeBoard
	case canKONextAttack(g, playerID):
		return StrategyAggressive
	case eval.GamePhase == GameEarly && boardSize(me) < 2:
		return StrategySetupFocused
	case eval.Score <= -25:
		return StrategyDefensive
	case eval.Score >= 25:
		return StrategyAdvantage
	default:
		return StrategyBalanced
	}
}

func keyFactors(g *battle.GameState, playerID int, eval *BoardEvaluation) []string {
	var factors []string
	if canKONextAttack(g, playerID) {
		factors = append(factors, "can knock out opposing active next attack")
	}
	if canKONextAttack(g, 1-playerID) {
		factors = append(factors, "opposing active threatens a knockout")
	}
	if eval.HPAdvantage > 0.3 {
		factors = append(factors, "healthy board relative to opponent")
	} else if eval.HPAdvantage < -0.3 {
		factors = append(factors, "board is badly damaged")
	}
	if eval.PrizePressure > 0 {
		factors = append(factors, "ahead on prize points")
	} else if eval.PrizePressure < 0 {
		factors = append(factors, "behind on prize points")
	}
	if len(factors) == 0 {
		factors = append(factors, fmt.Sprintf("even position in the %s game", eval.GamePhase))
	}
	return factors
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
