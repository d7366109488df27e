package metrics

import (
	"time"

	"baghchal/game"
)

// End reasons of a match
const (
	EndCaptures = "captures" // Tigers captured enough goats
	EndTrapped  = "trapped"  // Tigers could not move in the movement phase

	// Match runner rules, not game rules
	EndStalemate = "stalemate"  // Side to move had no legal action and lost
	EndTurnLimit = "turn_limit" // Draw at the turn cap
)

type MoveMetric struct {
	Step          int
	Player        game.Player
	Action        string // Action key
	Captured      bool
	Fallback      bool // Agent's candidate was replaced by the first legal action
	TigerMobility int
	GoatMobility  int
	State         game.StateHash // Position after the move
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player
	EndReason      string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Captures       int
	Fallbacks      int
}

// Collector gathers per-move metrics of a single match.
type Collector interface {
	Start()
	AddMove(m MoveMetric)
	Complete() []MoveMetric
}

type collector struct {
	moves []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.moves = nil
}

func (m *collector) AddMove(move MoveMetric) {
	m.moves = append(m.moves, move)
}

func (m *collector) Complete() []MoveMetric {
	moves := m.moves
	m.moves = nil
	return moves
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddMove(MoveMetric)     {}
func (m *dummyCollector) Complete() []MoveMetric { return nil }
