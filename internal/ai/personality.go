package ai

import "fmt"

// Personality names a fixed parameter profile for StrategicAI.
type Personality string

const (
	PersonalityAggressive   Personality = "aggressive"
	PersonalityBalanced     Personality = "balanced"
	PersonalityConservative Personality = "conservative"
	PersonalityControl      Personality = "control"
	PersonalityCombo        Personality = "combo"
)

// AllPersonalities lists the supported profiles.
var AllPersonalities = []Personality{
	PersonalityAggressive,
	PersonalityBalanced,
	PersonalityConservative,
	PersonalityControl,
	PersonalityCombo,
}

// PersonalityParams is the fixed parameter vector a personality maps
// to. Values are in [0, 1] and set at construction, never mutated.
type PersonalityParams struct {
	Aggression    float64
	RiskTolerance float64
	SetupPriority float64
	TempoPriority float64
	KOFocus       float64
}

var personalityTable = map[Personality]PersonalityParams{
	PersonalityAggressive: {
		Aggression:    0.9,
		RiskTolerance: 0.8,
		SetupPriority: 0.2,
		TempoPriority: 0.8,
		KOFocus:       0.9,
	},
	PersonalityBalanced: {
		Aggression:    0.5,
		RiskTolerance: 0.5,
		SetupPriority: 0.5,
		TempoPriority: 0.5,
		KOFocus:       0.5,
	},
	PersonalityConservative: {
		Aggression:    0.3,
		RiskTolerance: 0.2,
		SetupPriority: 0.7,
		TempoPriority: 0.3,
		KOFocus:       0.4,
	},
	PersonalityControl: {
		Aggression:    0.4,
		RiskTolerance: 0.3,
		SetupPriority: 0.6,
		TempoPriority: 0.4,
		KOFocus:       0.7,
	},
	PersonalityCombo: {
		Aggression:    0.6,
		RiskTolerance: 0.7,
		SetupPriority: 0.9,
		TempoPriority: 0.6,
		KOFocus:       0.6,
	},
}

// ParamsFor resolves a personality to its parameter vector.
func ParamsFor(p Personality) (PersonalityParams, error) {
	params, ok := personalityTable[p]
	if !ok {
		return PersonalityParams{}, fmt.Errorf("unknown personality %q", p)
	}
	return params, nil
}

// attackStrategyFor maps a personality and board recommendation onto
// an attack-scoring profile.
func attackStrategyFor(params PersonalityParams, boardStrategy string) AttackStrategy {
	switch boardStrategy {
	case StrategyCloseout, StrategyComeback:
		return AttackSecureKO
	case StrategySetupFocused:
		return AttackSetup
	case StrategyDefensive, StrategyStabilizeBoard:
		return AttackConserveEnergy
	}
	switch {
	case params.KOFocus >= 0.8:
		return AttackSecureKO
	case params.Aggression >= 0.8:
		return AttackMaxDamage
	case params.SetupPriority >= 0.8:
		return AttackSetup
	default:
		return AttackBalanced
	}
}
