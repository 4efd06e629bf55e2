package ai

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle"
)

// StrategicAI composes the board, card, and attack evaluators into a
// personality-driven policy. Every decision cycle evaluates the board,
// short-circuits on immediate knockout opportunities and threats, and
// otherwise runs the action template matching the recommended
// strategy. Any fault degrades to the rule-based policy.
type StrategicAI struct {
	playerID    int
	personality Personality
	params      PersonalityParams

	rng      *rand.Rand
	board    *BoardEvaluator
	cards    *CardEvaluator
	attacks  *AttackSelector
	fallback *RuleBasedAI
	logger   *zap.Logger
}

// NewStrategicAI creates a strategic agent. The RNG is seeded with
// seed+playerID, matching the rule-based agent, so swapping policies
// does not change the determinism contract.
func NewStrategicAI(playerID int, seed int64, personality Personality, logger *zap.Logger) (*StrategicAI, error) {
	params, err := ParamsFor(personality)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(
		zap.Int("ai_player", playerID),
		zap.String("personality", string(personality)),
	)
	return &StrategicAI{
		playerID:    playerID,
		personality: personality,
		params:      params,
		rng:         rand.New(rand.NewSource(seed + int64(playerID))),
		board:       NewBoardEvaluator(DefaultBoardWeights(), logger),
		cards:       NewCardEvaluator(logger),
		attacks:     NewAttackSelector(logger),
		fallback:    NewRuleBasedAI(playerID, seed, logger),
		logger:      logger,
	}, nil
}

// PlayerID implements Agent.
func (s *StrategicAI) PlayerID() int { return s.playerID }

// Personality returns the configured profile.
func (s *StrategicAI) Personality() Personality { return s.personality }

// ChooseAction implements Agent.
func (s *StrategicAI) ChooseAction(g *battle.GameState) (action battle.Action, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Warn("strategic decision fault, degrading to rule-based policy",
				zap.Any("fault", rec),
			)
			action, err = s.fallback.ChooseAction(g)
		}
	}()

	switch g.Phase() {
	case battle.PhasePlacement:
		return s.choosePlacement(g), nil
	case battle.PhaseForcedSelection:
		if g.ForcedSelectionPlayer() == s.playerID {
			return s.chooseForcedSelection(g), nil
		}
		return battle.Action{}, fmt.Errorf("player %d cannot act during opponent's forced selection", s.playerID)
	case battle.PhasePlayerTurn:
		return s.chooseTurnAction(g), nil
	default:
		return battle.Action{}, fmt.Errorf("no action available in phase %s", g.Phase())
	}
}

// choosePlacement uses the card evaluator to pick openers instead of
// the rule-based raw-damage heuristic.
func (s *StrategicAI) choosePlacement(g *battle.GameState) battle.Action {
	p := g.Player(s.playerID)
	if p.Active == nil {
		if idx := s.bestHandCard(g, ContextOpeningHand); idx >= 0 {
			return battle.NewAction(battle.ActionPlacePokemon, s.playerID, map[string]any{
				battle.DetailHandIndex: idx,
				battle.DetailTarget:    battle.TargetActive,
			})
		}
	}
	if p.Active != nil && g.Checker().CanPlaceOnBench(p.BenchCount()) {
		if idx := s.bestHandCard(g, ContextEarlyGame); idx >= 0 {
			return battle.NewAction(battle.ActionPlacePokemon, s.playerID, map[string]any{
				battle.DetailHandIndex: idx,
				battle.DetailTarget:    battle.TargetBench,
			})
		}
	}
	return battle.NewAction(battle.ActionEndTurn, s.playerID, nil)
}

// bestHandCard returns the hand index of the basic Pokémon with the
// highest total evaluation in the given context, or -1.
func (s *StrategicAI) bestHandCard(g *battle.GameState, ctx EvalContext) int {
	p := g.Player(s.playerID)
	bestIdx := -1
	bestScore := 0.0
	for i, c := range p.Hand {
		if !c.IsBasicPokemon() {
			continue
		}
		eval := s.cards.EvaluateCard(c, ctx)
		if bestIdx < 0 || eval.TotalValue > bestScore {
			bestScore = eval.TotalValue
			bestIdx = i
		}
	}
	return bestIdx
}

func (s *StrategicAI) chooseForcedSelection(g *battle.GameState) battle.Action {
	p := g.Player(s.playerID)
	opts := p.GetSelectionOptions()

	// Score bench replacements by readiness: attached energy dominates,
	// then the card's contextual value.
	ctx := s.evalContext(g)
	bestSlot := -1
	bestScore := 0.0
	for _, slot := range opts.BenchSlots {
		bp := p.Bench[slot]
		score := float64(len(bp.Energy))*1000 + s.cards.EvaluateCard(bp.Card, ctx).TotalValue + float64(bp.CurrentHP)/10
		if bestSlot < 0 || score > bestScore {
			bestScore = score
			bestSlot = slot
		}
	}
	if bestSlot >= 0 {
		return battle.NewAction(battle.ActionSelectActive, s.playerID, map[string]any{
			battle.DetailSource:     battle.SourceBench,
			battle.DetailBenchIndex: bestSlot,
		})
	}
	if len(opts.HandIndices) > 0 {
		bestIdx := -1
		bestVal := 0.0
		for _, i := range opts.HandIndices {
			v := s.cards.EvaluateCard(p.Hand[i], ctx).TotalValue
			if bestIdx < 0 || v > bestVal {
				bestVal = v
				bestIdx = i
			}
		}
		return battle.NewAction(battle.ActionSelectActive, s.playerID, map[string]any{
			battle.DetailSource:    battle.SourceHand,
			battle.DetailHandIndex: bestIdx,
		})
	}
	return battle.NewAction(battle.ActionEndTurn, s.playerID, nil)
}

func (s *StrategicAI) chooseTurnAction(g *battle.GameState) battle.Action {
	p := g.Player(s.playerID)
	if p.AttackedThisTurn {
		return battle.NewAction(battle.ActionEndTurn, s.playerID, nil)
	}
	if p.Active == nil {
		if idx := s.bestHandCard(g, s.evalContext(g)); idx >= 0 {
			return battle.NewAction(battle.ActionPlacePokemon, s.playerID, map[string]any{
				battle.DetailHandIndex: idx,
			})
		}
		return battle.NewAction(battle.ActionEndTurn, s.playerID, nil)
	}

	eval := s.board.Evaluate(g, s.playerID)

	// Short circuit: take a guaranteed knockout before anything else.
	if canKONextAttack(g, s.playerID) && p.Active.CanAct() {
		if idx := s.attacks.SelectAttack(g, s.playerID, AttackSecureKO); idx >= 0 {
			s.logger.Debug("short circuit: knockout available")
			return battle.NewAction(battle.ActionAttack, s.playerID, map[string]any{
				battle.DetailAttackIndex: idx,
			})
		}
	}
	// Short circuit: under lethal threat with no answer, build the
	// board before trading.
	threatened := canKONextAttack(g, 1-s.playerID)
	if threatened && s.params.RiskTolerance < 0.5 {
		if a, ok := s.tryPlacement(g); ok {
			s.logger.Debug("short circuit: developing under threat")
			return a
		}
	}

	strategy := attackStrategyFor(s.params, eval.RecommendedStrategy)
	for _, step := range s.template(eval.RecommendedStrategy) {
		if a, ok := step(g, strategy); ok {
			return a
		}
	}
	return battle.NewAction(battle.ActionEndTurn, s.playerID, nil)
}

// stepFn attempts one action kind; ok is false when the step has
// nothing legal or worthwhile to do.
type stepFn func(g *battle.GameState, strategy AttackStrategy) (battle.Action, bool)

// template returns the ordered steps for a recommended strategy. Every
// template covers all four action kinds so the turn always progresses;
// only the order changes.
func (s *StrategicAI) template(boardStrategy string) []stepFn {
	attack := func(g *battle.GameState, strategy AttackStrategy) (battle.Action, bool) {
		return s.tryAttack(g, strategy)
	}
	place := func(g *battle.GameState, _ AttackStrategy) (battle.Action, bool) {
		return s.tryPlacement(g)
	}
	energy := func(g *battle.GameState, _ AttackStrategy) (battle.Action, bool) {
		return s.tryEnergy(g)
	}
	retreat := func(g *battle.GameState, _ AttackStrategy) (battle.Action, bool) {
		return s.tryRetreat(g)
	}

	switch boardStrategy {
	case StrategyAggressive, StrategyCloseout, StrategyComeback:
		return []stepFn{attack, energy, place, retreat}
	case StrategySetupFocused:
		return []stepFn{place, energy, attack, retreat}
	case StrategyDefensive, StrategyStabilizeBoard:
		return []stepFn{place, retreat, energy, attack}
	case StrategyAdvantage:
		return []stepFn{attack, place, energy, retreat}
	default: // balanced
		return []stepFn{energy, attack, place, retreat}
	}
}

func (s *StrategicAI) tryAttack(g *battle.GameState, strategy AttackStrategy) (battle.Action, bool) {
	p := g.Player(s.playerID)
	if p.Active == nil || !p.Active.CanAct() {
		return battle.Action{}, false
	}
	idx := s.attacks.SelectAttack(g, s.playerID, strategy)
	if idx < 0 {
		return battle.Action{}, false
	}
	return battle.NewAction(battle.ActionAttack, s.playerID, map[string]any{
		battle.DetailAttackIndex: idx,
	}), true
}

func (s *StrategicAI) tryPlacement(g *battle.GameState) (battle.Action, bool) {
	p := g.Player(s.playerID)
	if !g.Checker().CanPlaceOnBench(p.BenchCount()) {
		return battle.Action{}, false
	}
	idx := s.bestHandCard(g, s.evalContext(g))
	if idx < 0 {
		return battle.Action{}, false
	}
	return battle.NewAction(battle.ActionPlacePokemon, s.playerID, map[string]any{
		battle.DetailHandIndex: idx,
	}), true
}

func (s *StrategicAI) tryEnergy(g *battle.GameState) (battle.Action, bool) {
	p := g.Player(s.playerID)
	if p.EnergyAttachedThisTurn || p.Active == nil {
		return battle.Action{}, false
	}
	if !g.Checker().EnergyAttachAllowed(s.playerID, g.TurnNumber()) {
		return battle.Action{}, false
	}
	t, ok := g.Energy().SuggestAttachment(p.EnergyTypes, p.Active.Energy, p.Active.AttackOptions(), s.rng)
	if !ok {
		return battle.Action{}, false
	}
	return battle.NewAction(battle.ActionAttachEnergy, s.playerID, map[string]any{
		battle.DetailEnergyType: string(t),
	}), true
}

func (s *StrategicAI) tryRetreat(g *battle.GameState) (battle.Action, bool) {
	p := g.Player(s.playerID)
	if p.Active == nil || !p.Active.CanAct() {
		return battle.Action{}, false
	}
	if !g.Checker().CanRetreat(p.Active.Card.RetreatCost, len(p.Active.Energy)) {
		return battle.Action{}, false
	}
	// Retreat only a dying active, and only into a live bench slot with
	// meaningful energy investment.
	if p.Active.HPFraction() >= 0.25 {
		return battle.Action{}, false
	}
	bestSlot, bestEnergy := -1, -1
	for i, bp := range p.Bench {
		if bp == nil || bp.IsKnockedOut() {
			continue
		}
		if len(bp.Energy) > bestEnergy {
			bestEnergy = len(bp.Energy)
			bestSlot = i
		}
	}
	if bestSlot < 0 {
		return battle.Action{}, false
	}
	return battle.NewAction(battle.ActionRetreat, s.playerID, map[string]any{
		battle.DetailBenchIndex: bestSlot,
	}), true
}

// evalContext derives the card-evaluation context from the battle
// state.
func (s *StrategicAI) evalContext(g *battle.GameState) EvalContext {
	me := g.Player(s.playerID)
	opp := g.Opponent(s.playerID)

	if me.Active != nil && me.Active.HPFraction() < 0.25 {
		return ContextLowHP
	}
	if opp.PrizePoints > me.PrizePoints {
		return ContextBehindOnPrizes
	}
	if me.PrizePoints > opp.PrizePoints {
		return ContextAheadOnPrizes
	}
	switch DetectGamePhase(g) {
	case GameEarly:
		return ContextEarlyGame
	case GameLate:
		return ContextLateGame
	default:
		return ContextMidGame
	}
}
