package battle

// ActionType enumerates the commands a player can issue.
type ActionType string

const (
	ActionAttachEnergy ActionType = "ATTACH_ENERGY"
	ActionAttack       ActionType = "ATTACK"
	ActionPlacePokemon ActionType = "PLACE_POKEMON"
	ActionRetreat      ActionType = "RETREAT"
	ActionUseAbility   ActionType = "USE_ABILITY"
	ActionEndTurn      ActionType = "END_TURN"
	ActionSelectActive ActionType = "SELECT_ACTIVE_POKEMON"
)

// Detail keys used in Action.Details.
const (
	DetailAttackIndex = "attack_index"
	DetailHandIndex   = "hand_index"
	DetailBenchIndex  = "bench_index"
	DetailEnergyType  = "energy_type"
	DetailSource      = "source" // "bench" or "hand" for SELECT_ACTIVE_POKEMON
	DetailTarget      = "target" // "active" or "bench" for PLACE_POKEMON
)

// Source values for SELECT_ACTIVE_POKEMON.
const (
	SourceBench = "bench"
	SourceHand  = "hand"
)

// Target values for PLACE_POKEMON.
const (
	TargetActive = "active"
	TargetBench  = "bench"
)

// Action is an immutable command value produced by an AI and consumed
// once by ExecuteAction.
type Action struct {
	Type     ActionType
	PlayerID int
	Details  map[string]any
}

// NewAction builds an action with the given details.
func NewAction(t ActionType, playerID int, details map[string]any) Action {
	if details == nil {
		details = map[string]any{}
	}
	return Action{Type: t, PlayerID: playerID, Details: details}
}

// Int reads an integer detail, defaulting to -1 when absent.
func (a Action) Int(key string) int {
	switch v := a.Details[key].(type) {
	case int:
		return v
	case float64: // JSON round trips land here
		return int(v)
	default:
		return -1
	}
}

// String reads a string detail, defaulting to "".
func (a Action) String(key string) string {
	if v, ok := a.Details[key].(string); ok {
		return v
	}
	return ""
}

// ToMap produces the wire shape used for logging and replay.
func (a Action) ToMap() map[string]any {
	details := make(map[string]any, len(a.Details))
	for k, v := range a.Details {
		details[k] = v
	}
	return map[string]any{
		"action_type": string(a.Type),
		"player_id":   a.PlayerID,
		"details":     details,
	}
}
