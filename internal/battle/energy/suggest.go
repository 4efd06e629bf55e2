package energy

import (
	"math/rand"

	"go.uber.org/zap"
)

// AttackOption is the slice of attack data the suggestion heuristic
// needs: a parsed cost and the attack's base damage.
type AttackOption struct {
	Name   string
	Cost   []Type
	Damage int
}

// SuggestAttachment picks which energy type to attach next.
//
// Each candidate type is scored by simulating its attachment and
// summing the damage of every attack it would newly unlock for
// exact-type payment; the max-scoring type wins, with ties broken by
// the supplied RNG. Exact payment keeps the heuristic discriminating:
// under the engine's loose substitution any single energy pays any
// one-slot cost and every candidate would score the same.
// When no attachment unlocks anything, a uniformly random candidate
// is returned so the board still develops.
func (m *Manager) SuggestAttachment(candidates []Type, attached []Type, attacks []AttackOption, rng *rand.Rand) (Type, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	bestScore := -1
	var best []Type
	for _, cand := range candidates {
		score := 0
		simulated := make([]Type, 0, len(attached)+1)
		simulated = append(simulated, attached...)
		simulated = append(simulated, cand)
		for _, atk := range attacks {
			if canPayExact(atk.Cost, attached) {
				continue // already usable, attachment unlocks nothing
			}
			if canPayExact(atk.Cost, simulated) {
				score += atk.Damage
			}
		}
		switch {
		case score > bestScore:
			bestScore = score
			best = []Type{cand}
		case score == bestScore:
			best = append(best, cand)
		}
	}

	choice := best[0]
	if len(best) > 1 && rng != nil {
		choice = best[rng.Intn(len(best))]
	}
	m.logger.Debug("energy attachment suggested",
		zap.String("type", string(choice)),
		zap.Int("unlock_score", bestScore),
	)
	return choice, true
}

// canPayExact reports whether available energy covers the cost with
// specific-type slots paid only by their own type. Colorless slots
// still accept anything left over.
func canPayExact(required, available []Type) bool {
	remaining := make([]Type, len(available))
	copy(remaining, available)

	colorless := 0
	for _, req := range required {
		if req == Colorless {
			colorless++
			continue
		}
		idx := -1
		for i, have := range remaining {
			if have == req {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return len(remaining) >= colorless
}
