package card

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
)

// EffectKind tags an EffectDescriptor variant.
type EffectKind string

const (
	EffectStatus      EffectKind = "STATUS"
	EffectHeal        EffectKind = "HEAL"
	EffectEnergyAccel EffectKind = "ENERGY_ACCEL"
	EffectCoinFlip    EffectKind = "COIN_FLIP"
	EffectDraw        EffectKind = "DRAW"
	EffectRecoil      EffectKind = "RECOIL"
)

// EffectDescriptor is the structured form of an attack or ability
// effect. Descriptors are populated once at data ingestion from the
// printed effect text; the engine and the AI consume descriptors and
// never re-parse free text at decision time.
type EffectDescriptor struct {
	Kind EffectKind

	// EffectStatus
	Condition StatusCondition

	// EffectHeal, EffectRecoil: HP amount. EffectDraw: card count.
	// EffectCoinFlip: bonus damage on heads.
	Amount int

	// EffectEnergyAccel
	EnergyType  energy.Type
	EnergyCount int
}

var (
	healPattern   = regexp.MustCompile(`(?i)heal(?:s)?\s+(\d+)\s+damage`)
	recoilPattern = regexp.MustCompile(`(?i)(?:this pok.mon (?:also )?does|does)\s+(\d+)\s+damage to itself`)
	drawPattern   = regexp.MustCompile(`(?i)draw\s+(\d+)\s+card`)
	flipPattern   = regexp.MustCompile(`(?i)flip a coin.*?(\d+)\s+(?:more\s+)?damage`)
	accelPattern  = regexp.MustCompile(`(?i)attach\s+(?:a|an|\d+)\s+\{?(\w+)\}?\s+energy`)
	accelCountPat = regexp.MustCompile(`(?i)attach\s+(\d+)`)
)

// statusKeywords maps effect-text keywords to status conditions.
// The keyword set is deliberately conservative: text that matches
// nothing yields no descriptor and the attack falls back to base
// damage only.
var statusKeywords = []struct {
	keyword   string
	condition StatusCondition
}{
	{"poisoned", StatusPoisoned},
	{"burned", StatusBurned},
	{"asleep", StatusAsleep},
	{"paralyzed", StatusParalyzed},
}

// ParseEffects converts printed effect text into structured
// descriptors. It is called once per attack/ability at load time.
func ParseEffects(text string) []EffectDescriptor {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	lower := strings.ToLower(trimmed)

	var effects []EffectDescriptor

	for _, sk := range statusKeywords {
		if strings.Contains(lower, sk.keyword) {
			effects = append(effects, EffectDescriptor{
				Kind:      EffectStatus,
				Condition: sk.condition,
			})
		}
	}

	if m := healPattern.FindStringSubmatch(trimmed); m != nil {
		effects = append(effects, EffectDescriptor{
			Kind:   EffectHeal,
			Amount: mustAtoi(m[1]),
		})
	}

	if m := recoilPattern.FindStringSubmatch(trimmed); m != nil {
		effects = append(effects, EffectDescriptor{
			Kind:   EffectRecoil,
			Amount: mustAtoi(m[1]),
		})
	}

	if m := drawPattern.FindStringSubmatch(trimmed); m != nil {
		effects = append(effects, EffectDescriptor{
			Kind:   EffectDraw,
			Amount: mustAtoi(m[1]),
		})
	}

	if m := flipPattern.FindStringSubmatch(trimmed); m != nil {
		effects = append(effects, EffectDescriptor{
			Kind:   EffectCoinFlip,
			Amount: mustAtoi(m[1]),
		})
	} else if strings.Contains(lower, "flip a coin") {
		// Coin flip with a non-damage payoff; keep the tag so the AI
		// can discount the attack's reliability.
		effects = append(effects, EffectDescriptor{Kind: EffectCoinFlip})
	}

	if m := accelPattern.FindStringSubmatch(trimmed); m != nil {
		count := 1
		if cm := accelCountPat.FindStringSubmatch(trimmed); cm != nil {
			count = mustAtoi(cm[1])
		}
		if t, ok := parseEnergyWord(m[1]); ok {
			effects = append(effects, EffectDescriptor{
				Kind:        EffectEnergyAccel,
				EnergyType:  t,
				EnergyCount: count,
			})
		}
	}

	return effects
}

// HasKind reports whether any descriptor in the list has the kind.
func HasKind(effects []EffectDescriptor, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func parseEnergyWord(word string) (energy.Type, bool) {
	t := energy.Type(strings.ToUpper(word))
	if energy.IsValid(t) {
		return t, true
	}
	return "", false
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
