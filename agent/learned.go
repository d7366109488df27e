package agent

import (
	"baghchal/game"
	"baghchal/learner"
)

type trainingAgent struct {
	learner *learner.Learner
}

// NewTrainingAgent returns an epsilon-greedy agent for self-play during training.
func NewTrainingAgent(l *learner.Learner) Agent {
	return trainingAgent{learner: l}
}

func (a trainingAgent) Player() game.Player {
	return a.learner.Player()
}

func (a trainingAgent) SelectAction(src ActionSource, state *game.GameState) (game.Action, bool) {
	return a.learner.SelectAction(src, state)
}

type evaluationAgent struct {
	learner *learner.Learner
}

// NewEvaluationAgent returns a greedy agent for actual game play during
// evaluation. It never explores and leaves the learner untouched.
func NewEvaluationAgent(l *learner.Learner) Agent {
	return evaluationAgent{learner: l}
}

func (a evaluationAgent) Player() game.Player {
	return a.learner.Player()
}

func (a evaluationAgent) SelectAction(src ActionSource, state *game.GameState) (game.Action, bool) {
	actions := src.LegalActions(a.learner.Player())
	if len(actions) == 0 {
		return game.Action{}, false
	}
	return a.learner.Greedy(a.learner.Key(state), actions), true
}
