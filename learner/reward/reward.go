// Package reward turns game steps into per-side learning signals. The terminal
// outcome dominates; the remaining terms are small shaping bonuses.
package reward

import (
	"math"

	"baghchal/game"
)

// Step is what one side observes between two of its own turns. Before is the
// state it acted in, After the state where it acts next (or the final state).
type Step struct {
	Player game.Player
	Before *game.GameState
	After  *game.GameState
	Action game.Action
	Done   bool
	Winner game.Player
}

// Captured returns the goats captured during the step.
func (s Step) Captured() int {
	return s.After.GoatsCaptured - s.Before.GoatsCaptured
}

type Shaper interface {
	Shape(step Step) float64
}

// terminal returns the win or loss reward, and zero for a draw.
func terminal(step Step, win float64) float64 {
	switch step.Winner {
	case step.Player:
		return win
	case game.NoPlayer:
		return 0
	default:
		return -win
	}
}

type TigerWeights struct {
	WinReward     float64 `yaml:"win_reward"`
	CaptureReward float64 `yaml:"capture_reward"`
	Contact       float64 `yaml:"contact"`
	Center        float64 `yaml:"center"`
	Mobility      float64 `yaml:"mobility"`
	StepCost      float64 `yaml:"step_cost"`
}

func DefaultTigerWeights() TigerWeights {
	return TigerWeights{
		WinReward:     100,
		CaptureReward: 5,
		Contact:       0.5,
		Center:        0.5,
		Mobility:      0.5,
		StepCost:      0.1,
	}
}

type tigerShaper struct {
	w TigerWeights
}

func NewTigerShaper(w TigerWeights) Shaper {
	return tigerShaper{w: w}
}

func (s tigerShaper) Shape(step Step) float64 {
	b := &step.After.Board
	r := -s.w.StepCost

	if step.Done {
		r += terminal(step, s.w.WinReward)
	}
	// Later captures are worth more than earlier ones
	if step.Captured() > 0 {
		r += s.w.CaptureReward * math.Pow(float64(step.After.GoatsCaptured), 1.5)
	}

	r += s.w.Contact * float64(b.ContactPairs()) / (8 * game.NumTigers)
	center := float64(b.StrongPoints(game.TigerPiece)) / game.NumTigers
	if b.CenterPiece() == game.TigerPiece {
		center += 1
	}
	r += s.w.Center * center / 2
	r += s.w.Mobility * float64(b.Mobility(game.Tiger)) / (8 * game.NumTigers)
	return r
}

type GoatWeights struct {
	WinReward      float64 `yaml:"win_reward"`
	CapturePenalty float64 `yaml:"capture_penalty"`
	SafeLanding    float64 `yaml:"safe_landing"`
	Formation      float64 `yaml:"formation"`
	Blocking       float64 `yaml:"blocking"`
	Distance       float64 `yaml:"distance"`
}

func DefaultGoatWeights() GoatWeights {
	return GoatWeights{
		WinReward:      100,
		CapturePenalty: 5,
		SafeLanding:    1,
		Formation:      0.5,
		Blocking:       1,
		Distance:       0.5,
	}
}

type goatShaper struct {
	w GoatWeights
}

func NewGoatShaper(w GoatWeights) Shaper {
	return goatShaper{w: w}
}

func (s goatShaper) Shape(step Step) float64 {
	b := &step.After.Board
	r := 0.0

	if step.Done {
		r += terminal(step, s.w.WinReward)
	}
	// Each further loss hurts more
	if step.Captured() > 0 {
		r -= s.w.CapturePenalty * math.Pow(float64(step.After.GoatsCaptured), 1.5)
	}

	// The goat that just moved survived and cannot be jumped
	if b.At(step.Action.To) == game.GoatPiece && !b.IsVulnerable(step.Action.To) {
		r += s.w.SafeLanding
	}

	formation := float64(b.AdjacentPairs(game.GoatPiece))/(2*game.TotalGoats) + float64(b.LineRuns(game.GoatPiece))/(game.TotalGoats/3)
	r += s.w.Formation * math.Min(formation, 2) / 2

	blocked := step.Before.Board.Mobility(game.Tiger) - b.Mobility(game.Tiger)
	r += s.w.Blocking * float64(blocked) / (8 * game.NumTigers)

	if step.Action.Kind == game.PlaceAction {
		// King-move distance is at most 4 on a 5x5 board
		r += s.w.Distance * float64(min(b.NearestTigerDistance(step.Action.To), 4)) / 4
	}
	return r
}

// ForPlayer returns the shaper of a side with the given weights.
func ForPlayer(player game.Player, tiger TigerWeights, goat GoatWeights) Shaper {
	switch player {
	case game.Tiger:
		return NewTigerShaper(tiger)
	case game.Goat:
		return NewGoatShaper(goat)
	default:
		panic("no shaper for " + player.String())
	}
}
