package energy

import "strings"

// Type represents a type of energy.
type Type string

const (
	Grass     Type = "GRASS"
	Fire      Type = "FIRE"
	Water     Type = "WATER"
	Lightning Type = "LIGHTNING"
	Psychic   Type = "PSYCHIC"
	Fighting  Type = "FIGHTING"
	Darkness  Type = "DARKNESS"
	Metal     Type = "METAL"
	Colorless Type = "COLORLESS" // Colorless can be paid with any type
)

// AllTypes lists every energy type in a fixed order.
var AllTypes = []Type{
	Grass, Fire, Water, Lightning, Psychic, Fighting, Darkness, Metal, Colorless,
}

// symbolTable maps cost symbols and full names to energy types.
// Both the single-letter symbols used in attack costs and the
// lowercase names used in card data files are accepted.
var symbolTable = map[string]Type{
	"G":         Grass,
	"R":         Fire,
	"W":         Water,
	"L":         Lightning,
	"P":         Psychic,
	"F":         Fighting,
	"D":         Darkness,
	"M":         Metal,
	"C":         Colorless,
	"GRASS":     Grass,
	"FIRE":      Fire,
	"WATER":     Water,
	"LIGHTNING": Lightning,
	"PSYCHIC":   Psychic,
	"FIGHTING":  Fighting,
	"DARKNESS":  Darkness,
	"METAL":     Metal,
	"COLORLESS": Colorless,
}

// weaknessChart maps a defender's energy type to the attacker type it
// is weak against.
var weaknessChart = map[Type]Type{
	Grass:    Fire,
	Fire:     Water,
	Water:    Lightning,
	Fighting: Psychic,
	Psychic:  Darkness,
	Metal:    Fire,
}

// ParseType resolves a single cost symbol ("R") or full name ("FIRE",
// any case) to an energy type.
func ParseType(s string) (Type, bool) {
	t, ok := symbolTable[strings.ToUpper(strings.TrimSpace(s))]
	return t, ok
}

// WeakTo returns the attacking energy type the given type is weak to.
func WeakTo(t Type) (Type, bool) {
	w, ok := weaknessChart[t]
	return w, ok
}

// IsValid reports whether t is one of the known energy types.
func IsValid(t Type) bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// Symbol returns the single-letter cost symbol for the type.
func (t Type) Symbol() string {
	switch t {
	case Grass:
		return "G"
	case Fire:
		return "R"
	case Water:
		return "W"
	case Lightning:
		return "L"
	case Psychic:
		return "P"
	case Fighting:
		return "F"
	case Darkness:
		return "D"
	case Metal:
		return "M"
	case Colorless:
		return "C"
	default:
		return "?"
	}
}
