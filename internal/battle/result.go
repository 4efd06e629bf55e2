package battle

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Result is the immutable snapshot produced exactly once at battle
// end.
type Result struct {
	BattleID        string
	Winner          int // NoPlayer when tied
	IsTie           bool
	TotalTurns      int
	FinalScores     [2]int
	DurationSeconds float64
	DeckTypes       [2][]string
	RNGSeed         int64
	SeedSet         bool
	EndReason       string
	Timestamp       time.Time
	ActionLog       []LogEntry
}

// ToMap produces the wire shape used for reporting and replay.
func (r *Result) ToMap() map[string]any {
	var winner any
	if !r.IsTie && r.Winner != NoPlayer {
		winner = r.Winner
	}
	var seed any
	if r.SeedSet {
		seed = r.RNGSeed
	}
	return map[string]any{
		"battle_id":        r.BattleID,
		"winner":           winner,
		"is_tie":           r.IsTie,
		"total_turns":      r.TotalTurns,
		"final_scores":     []int{r.FinalScores[0], r.FinalScores[1]},
		"duration_seconds": r.DurationSeconds,
		"deck_types":       [][]string{r.DeckTypes[0], r.DeckTypes[1]},
		"rng_seed":         seed,
		"end_reason":       r.EndReason,
		"timestamp":        r.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Fingerprint computes a deterministic checksum over the outcome and
// the full action log, excluding wall-clock fields. Two replays of
// the same battle must produce identical fingerprints.
func (r *Result) Fingerprint() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "RESULT:%d|%t|%d|%d|%d|%s\n",
		r.Winner, r.IsTie, r.TotalTurns, r.FinalScores[0], r.FinalScores[1], r.EndReason)
	for _, entry := range r.ActionLog {
		fmt.Fprintf(&buf, "LOG:%d|%d|%s|%s\n", entry.Turn, entry.Player, entry.Event, entry.Detail)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
