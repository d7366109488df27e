package agent

import (
	"math"

	"baghchal/game"

	"golang.org/x/exp/rand"
)

// StrategyAgent plays a fixed, non-learning strategy.
type StrategyAgent struct {
	player   game.Player
	strategy Strategy
	rng      *rand.Rand
	evaluate game.Evaluate
}

func (a *StrategyAgent) Player() game.Player {
	return a.player
}

func (a *StrategyAgent) Strategy() Strategy {
	return a.strategy
}

func (a *StrategyAgent) SelectAction(src ActionSource, state *game.GameState) (game.Action, bool) {
	actions := src.LegalActions(a.player)
	if len(actions) == 0 {
		return game.Action{}, false
	}

	switch a.strategy {
	case Greedy:
		return a.bestAction(state, actions), true
	default:
		return actions[a.rng.Intn(len(actions))], true
	}
}

// bestAction looks one ply ahead and keeps the first action with the highest
// evaluation for the agent's side.
func (a *StrategyAgent) bestAction(state *game.GameState, actions []game.Action) game.Action {
	best := actions[0]
	bestScore := math.Inf(-1)
	for _, action := range actions {
		next := state.Copy()
		if _, err := next.Apply(action); err != nil {
			continue
		}
		if score := a.evaluate(next, a.player); score > bestScore {
			best, bestScore = action, score
		}
	}
	return best
}
