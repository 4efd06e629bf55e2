package energy

import (
	"strings"

	"go.uber.org/zap"
)

// Manager parses and validates energy costs and suggests attachments.
// All randomness is drawn from the RNG threaded in by the owning
// battle, so results are reproducible for a given seed.
type Manager struct {
	logger *zap.Logger
}

// NewManager creates an energy manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// ParseCost maps a list of cost symbols (e.g. ["R","C"]) or full
// names to energy types. Unknown entries are logged and dropped.
func (m *Manager) ParseCost(symbols []string) []Type {
	cost := make([]Type, 0, len(symbols))
	for _, s := range symbols {
		key := strings.ToUpper(strings.TrimSpace(s))
		t, ok := symbolTable[key]
		if !ok {
			m.logger.Warn("unknown energy symbol dropped", zap.String("symbol", s))
			continue
		}
		cost = append(cost, t)
	}
	return cost
}

// ValidateCost checks whether the available energy can pay the
// required cost. Required slots are consumed left to right: a slot is
// paid by a matching specific type when one is available, otherwise
// any remaining energy may substitute (Colorless slots always
// substitute). Substitution is first-available greedy, which is not
// guaranteed optimal for mixed costs.
//
// Returns whether the cost can be paid and the energy left over.
func (m *Manager) ValidateCost(required, available []Type) (bool, []Type) {
	remaining := make([]Type, len(available))
	copy(remaining, available)

	for _, req := range required {
		idx := -1
		if req != Colorless {
			for i, have := range remaining {
				if have == req {
					idx = i
					break
				}
			}
		}
		// Colorless, or no exact match: take the first available.
		if idx < 0 {
			if len(remaining) == 0 {
				return false, remaining
			}
			idx = 0
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return true, remaining
}

// CanPay reports whether available energy covers the required cost.
func (m *Manager) CanPay(required, available []Type) bool {
	ok, _ := m.ValidateCost(required, available)
	return ok
}
