package trainer

import (
	"baghchal/engine"
	"baghchal/game"
	"baghchal/learner"
	"baghchal/learner/reward"
)

// pending is a side's last action, waiting for the state where it moves again.
type pending struct {
	before *game.GameState
	action game.Action
}

// selfPlay turns the turns of one game into learning updates. Each side
// learns only from its own transitions: from the state it acted in to the
// state of its next turn, or to the final state.
type selfPlay struct {
	learners map[game.Player]*learner.Learner
	shapers  map[game.Player]reward.Shaper
	pending  map[game.Player]pending
	rewards  map[game.Player]float64
}

func newSelfPlay(learners map[game.Player]*learner.Learner, shapers map[game.Player]reward.Shaper) *selfPlay {
	return &selfPlay{
		learners: learners,
		shapers:  shapers,
		pending:  make(map[game.Player]pending),
		rewards:  make(map[game.Player]float64),
	}
}

func (s *selfPlay) observe(turn engine.Turn) {
	if p, ok := s.pending[turn.Player]; ok {
		s.learn(turn.Player, p, turn.Before, false, game.NoPlayer)
	}
	s.pending[turn.Player] = pending{before: turn.Before, action: turn.Action}

	if turn.Outcome.Done {
		s.finish(turn.Outcome.State, turn.Outcome.State.Winner)
	}
}

// finish closes every open transition as terminal. It is a no-op once all
// transitions are closed.
func (s *selfPlay) finish(final *game.GameState, winner game.Player) {
	for _, player := range []game.Player{game.Goat, game.Tiger} {
		if p, ok := s.pending[player]; ok {
			s.learn(player, p, final, true, winner)
			delete(s.pending, player)
		}
	}
}

func (s *selfPlay) learn(player game.Player, p pending, after *game.GameState, done bool, winner game.Player) {
	r := s.shapers[player].Shape(reward.Step{
		Player: player,
		Before: p.before,
		After:  after,
		Action: p.action,
		Done:   done,
		Winner: winner,
	})
	s.rewards[player] += r
	s.learners[player].Learn(p.before, p.action, r, after, done)
}
