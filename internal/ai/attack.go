package ai

import (
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/battle"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
)

// AttackStrategy selects the weighting profile for attack scoring.
type AttackStrategy int

const (
	AttackBalanced AttackStrategy = iota
	AttackMaxDamage
	AttackSecureKO
	AttackConserveEnergy
	AttackSetup
)

func (s AttackStrategy) String() string {
	switch s {
	case AttackMaxDamage:
		return "MAX_DAMAGE"
	case AttackSecureKO:
		return "SECURE_KO"
	case AttackConserveEnergy:
		return "CONSERVE_ENERGY"
	case AttackSetup:
		return "SETUP"
	default:
		return "BALANCED"
	}
}

// attackWeights are the component weights for one strategy profile.
type attackWeights struct {
	damage     float64
	ko         float64
	efficiency float64
	tempo      float64
	setup      float64
	disruption float64
}

func weightsFor(strategy AttackStrategy) attackWeights {
	w := attackWeights{
		damage:     1.0,
		ko:         2.0,
		efficiency: 0.6,
		tempo:      0.5,
		setup:      0.4,
		disruption: 0.5,
	}
	switch strategy {
	case AttackMaxDamage:
		w.damage *= 1.8
		w.efficiency *= 0.5
	case AttackSecureKO:
		w.ko *= 2.0
	case AttackConserveEnergy:
		w.efficiency *= 2.0
		w.damage *= 0.8
	case AttackSetup:
		w.setup *= 2.5
		w.tempo *= 1.5
		w.damage *= 0.7
	}
	return w
}

// AttackChoice is one scored usable attack.
type AttackChoice struct {
	Index           int
	Attack          *card.Attack
	EffectiveDamage int
	KOProbability   float64
	Score           float64
}

// AttackSelector scores the usable attacks of the active Pokémon and
// picks the best one for the current strategy and game phase.
type AttackSelector struct {
	logger *zap.Logger
}

// NewAttackSelector creates an attack selector.
func NewAttackSelector(logger *zap.Logger) *AttackSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttackSelector{logger: logger}
}

// SelectAttack returns the index of the best usable attack, or -1 when
// no attack is payable. Any scoring fault degrades to the plain
// max-damage choice rather than failing the turn.
func (s *AttackSelector) SelectAttack(g *battle.GameState, playerID int, strategy AttackStrategy) (idx int) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Warn("attack scoring fault, using max damage",
				zap.Int("player", playerID),
				zap.Any("fault", rec),
			)
			idx = fallbackMaxDamage(g, playerID)
		}
	}()

	choices := s.ScoreAttacks(g, playerID, strategy)
	if len(choices) == 0 {
		return -1
	}
	best := choices[0]
	for _, c := range choices[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	s.logger.Debug("attack selected",
		zap.Int("player", playerID),
		zap.String("attack", best.Attack.Name),
		zap.Float64("score", best.Score),
		zap.String("strategy", strategy.String()),
	)
	return best.Index
}

// ScoreAttacks scores every currently payable attack.
func (s *AttackSelector) ScoreAttacks(g *battle.GameState, playerID int, strategy AttackStrategy) []AttackChoice {
	p := g.Player(playerID)
	opp := g.Opponent(playerID)
	if p.Active == nil || opp.Active == nil {
		return nil
	}

	w := weightsFor(strategy)
	phase := DetectGamePhase(g)
	usable := usableAttacks(g, playerID)

	var choices []AttackChoice
	for _, i := range usable {
		atk := &p.Active.Card.Attacks[i]
		dmg := g.Checker().CalculateDamage(atk, p.Active.Card, opp.Active.Card)
		koProb := koProbability(dmg, opp.Active.CurrentHP)

		// Damage past the knockout is wasted; score only what lands.
		useful := dmg
		if useful > opp.Active.CurrentHP {
			useful = opp.Active.CurrentHP
		}

		score := float64(useful) * w.damage
		score += koProb * 100 * w.ko * phaseKOScale(phase)
		score += energyEfficiency(atk, useful) * w.efficiency
		if koProb < 1.0 {
			// On-hit effects are moot against a defender that is
			// knocked out anyway.
			score += tempoScore(atk) * w.tempo
			score += setupScore(atk) * w.setup * phaseSetupScale(phase)
			score += disruptionScore(atk) * w.disruption
		}
		score -= opportunityCost(atk, usable, p)
		score *= situationalMultiplier(g, playerID, atk, koProb)

		choices = append(choices, AttackChoice{
			Index:           i,
			Attack:          atk,
			EffectiveDamage: dmg,
			KOProbability:   koProb,
			Score:           score,
		})
	}
	return choices
}

// koProbability bands the damage-to-remaining-HP ratio into a coarse
// knockout likelihood. Lethal damage is certain; near-lethal bands
// account for chip damage finishing the job soon.
func koProbability(damage, remainingHP int) float64 {
	if remainingHP <= 0 {
		return 0
	}
	if damage >= remainingHP {
		return 1.0
	}
	ratio := float64(damage) / float64(remainingHP)
	switch {
	case ratio >= 0.8:
		return 0.9
	case ratio >= 0.6:
		return 0.7
	case ratio >= 0.4:
		return 0.4
	default:
		return ratio * 0.5
	}
}

// energyEfficiency is damage per energy spent, in score units.
func energyEfficiency(atk *card.Attack, damage int) float64 {
	cost := len(atk.Cost)
	if cost == 0 {
		cost = 1
	}
	return float64(damage) / float64(cost)
}

// tempoScore rewards effects that advance the board this turn.
func tempoScore(atk *card.Attack) float64 {
	v := 0.0
	if card.HasKind(atk.Effects, card.EffectDraw) {
		v += 15
	}
	if card.HasKind(atk.Effects, card.EffectEnergyAccel) {
		v += 20
	}
	return v
}

// setupScore rewards effects whose value compounds on later turns.
func setupScore(atk *card.Attack) float64 {
	v := 0.0
	if card.HasKind(atk.Effects, card.EffectEnergyAccel) {
		v += 25
	}
	if card.HasKind(atk.Effects, card.EffectHeal) {
		v += 15
	}
	return v
}

// disruptionScore rewards effects that degrade the opponent's turns.
func disruptionScore(atk *card.Attack) float64 {
	v := 0.0
	for _, eff := range atk.Effects {
		if eff.Kind != card.EffectStatus {
			continue
		}
		switch eff.Condition {
		case card.StatusParalyzed, card.StatusAsleep:
			v += 30 // the defender may lose a whole attack
		case card.StatusPoisoned, card.StatusBurned:
			v += 15
		}
	}
	return v
}

// opportunityCost penalizes spending a big attack when a cheaper one
// does comparable work.
func opportunityCost(atk *card.Attack, usable []int, p *battle.PlayerState) float64 {
	if len(atk.Cost) <= 1 {
		return 0
	}
	for _, i := range usable {
		other := &p.Active.Card.Attacks[i]
		if other == atk {
			continue
		}
		if len(other.Cost) < len(atk.Cost) && other.Damage >= atk.Damage*3/4 {
			return float64(len(atk.Cost)-len(other.Cost)) * 10
		}
	}
	return 0
}

// situationalMultiplier adjusts the score for the wider battle state.
func situationalMultiplier(g *battle.GameState, playerID int, atk *card.Attack, koProb float64) float64 {
	m := 1.0
	me := g.Player(playerID)
	opp := g.Opponent(playerID)
	maxPrizes := g.Checker().Rules().MaxPrizePoints

	// Desperate spots reward any knockout chance.
	if opp.PrizePoints >= maxPrizes-1 && koProb >= 0.7 {
		m *= 1.5
	}
	// With a lead, efficient safe attacks beat gambles.
	if me.PrizePoints > opp.PrizePoints && card.HasKind(atk.Effects, card.EffectCoinFlip) {
		m *= 0.85
	}
	// Under prize pressure, avoid coin-flip dependence entirely.
	if opp.PrizePoints >= maxPrizes-1 && card.HasKind(atk.Effects, card.EffectCoinFlip) && koProb < 1.0 {
		m *= 0.7
	}
	// A dying active should cash out its energy now.
	if me.Active != nil && me.Active.HPFraction() < 0.25 {
		m *= 1.2
	}
	// Recoil is a real cost when it would knock us out too.
	for _, eff := range atk.Effects {
		if eff.Kind == card.EffectRecoil && me.Active != nil && eff.Amount >= me.Active.CurrentHP {
			m *= 0.6
		}
	}
	return m
}

func fallbackMaxDamage(g *battle.GameState, playerID int) int {
	p := g.Player(playerID)
	opp := g.Opponent(playerID)
	if p.Active == nil || opp.Active == nil {
		return -1
	}
	best, bestIdx := -1, -1
	for _, i := range usableAttacks(g, playerID) {
		dmg := g.Checker().CalculateDamage(&p.Active.Card.Attacks[i], p.Active.Card, opp.Active.Card)
		if dmg > best {
			best = dmg
			bestIdx = i
		}
	}
	return bestIdx
}

func phaseKOScale(phase GamePhase) float64 {
	switch phase {
	case GameLate:
		return 1.3
	case GameEarly:
		return 0.9
	default:
		return 1.0
	}
}

func phaseSetupScale(phase GamePhase) float64 {
	switch phase {
	case GameEarly:
		return 1.4
	case GameLate:
		return 0.5
	default:
		return 1.0
	}
}
