package battle

// LogEntry is one record in the append-only turn log.
type LogEntry struct {
	Turn   int    `json:"turn"`
	Player int    `json:"player"`
	Event  string `json:"event"`
	Detail string `json:"detail,omitempty"`
}

// appendLog records an event in the battle's turn log.
func (g *GameState) appendLog(player int, event, detail string) {
	g.turnLog = append(g.turnLog, LogEntry{
		Turn:   g.turnNumber,
		Player: player,
		Event:  event,
		Detail: detail,
	})
}

// TurnLog returns a copy of the battle's turn log so far.
func (g *GameState) TurnLog() []LogEntry {
	out := make([]LogEntry, len(g.turnLog))
	copy(out, g.turnLog)
	return out
}
