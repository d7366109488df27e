package engine

import (
	"baghchal/experiments/metrics"
	"baghchal/game"
)

var _ Runner = (*Engine)(nil)

type Runner interface {
	// Run plays a game till there's a winner or the turn cap is reached
	Run() (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}

// Turn describes one applied action to observers.
type Turn struct {
	Step     int
	Player   game.Player
	Before   *game.GameState
	Action   game.Action
	Outcome  game.Outcome
	Fallback bool
}

type Observer func(turn Turn)
