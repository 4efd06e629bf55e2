package battle

// PokemonSnapshot is the JSON view of one Pokémon in play.
type PokemonSnapshot struct {
	Name      string   `json:"name"`
	CurrentHP int      `json:"current_hp"`
	MaxHP     int      `json:"max_hp"`
	Energy    []string `json:"energy"`
	Status    string   `json:"status,omitempty"`
	EX        bool     `json:"ex,omitempty"`
}

// PlayerSnapshot is the JSON view of one player's board.
type PlayerSnapshot struct {
	ID          int               `json:"id"`
	Active      *PokemonSnapshot  `json:"active"`
	Bench       []*PokemonSnapshot `json:"bench"`
	HandCount   int               `json:"hand_count"`
	DeckCount   int               `json:"deck_count"`
	PrizePoints int               `json:"prize_points"`
}

// Snapshot is a point-in-time JSON view of a battle, consumed by the
// web demo.
type Snapshot struct {
	BattleID      string           `json:"battle_id"`
	Phase         string           `json:"phase"`
	Turn          int              `json:"turn"`
	CurrentPlayer int              `json:"current_player"`
	Players       [2]PlayerSnapshot `json:"players"`
	LogTail       []LogEntry       `json:"log_tail"`
}

func snapshotPokemon(bp *BattlePokemon) *PokemonSnapshot {
	if bp == nil {
		return nil
	}
	energies := make([]string, len(bp.Energy))
	for i, t := range bp.Energy {
		energies[i] = string(t)
	}
	return &PokemonSnapshot{
		Name:      bp.Card.Name,
		CurrentHP: bp.CurrentHP,
		MaxHP:     bp.Card.HP,
		Energy:    energies,
		Status:    string(bp.Status),
		EX:        bp.Card.IsEX(),
	}
}

// Snapshot builds the current JSON view. The log tail carries the
// most recent entries only.
func (g *GameState) Snapshot() Snapshot {
	const logTail = 12

	snap := Snapshot{
		BattleID:      g.battleID,
		Phase:         g.phase.String(),
		Turn:          g.turnNumber,
		CurrentPlayer: g.currentPlayer,
	}
	for i, p := range g.players {
		ps := PlayerSnapshot{
			ID:          p.ID,
			Active:      snapshotPokemon(p.Active),
			HandCount:   len(p.Hand),
			DeckCount:   len(p.Deck),
			PrizePoints: p.PrizePoints,
		}
		for _, slot := range p.Bench {
			if slot != nil {
				ps.Bench = append(ps.Bench, snapshotPokemon(slot))
			}
		}
		snap.Players[i] = ps
	}
	start := len(g.turnLog) - logTail
	if start < 0 {
		start = 0
	}
	snap.LogTail = append(snap.LogTail, g.turnLog[start:]...)
	return snap
}
