// Package agent provides the players that choose actions in a match: fixed
// strategies and agents backed by a learner.
package agent

import (
	"fmt"

	"baghchal/game"
	"baghchal/learner"

	"golang.org/x/exp/rand"
)

type ActionSource = game.ActionSource

type Agent interface {
	Player() game.Player
	// SelectAction returns one of src's legal actions for the agent's side, or
	// false when there is none.
	SelectAction(src ActionSource, state *game.GameState) (game.Action, bool)
}

type Strategy int

const (
	Random Strategy = iota
	Greedy
	Learned
)

func (s Strategy) String() string {
	switch s {
	case Random:
		return "random"
	case Greedy:
		return "greedy"
	case Learned:
		return "learned"
	default:
		panic(fmt.Sprintf("unknown strategy %d", int(s)))
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "random":
		return Random, nil
	case "greedy":
		return Greedy, nil
	case "learned":
		return Learned, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

type Option func(c *config)

type config struct {
	seed     uint64
	evaluate game.Evaluate
	learner  *learner.Learner
	training bool
}

func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(c *config) {
		if evaluate != nil {
			c.evaluate = evaluate
		}
	}
}

// WithLearner backs a learned agent. Training agents explore and count
// selections; evaluation agents always play greedily.
func WithLearner(l *learner.Learner, training bool) Option {
	return func(c *config) {
		c.learner = l
		c.training = training
	}
}

// New builds an agent for a side from a strategy tag.
func New(strategy Strategy, player game.Player, options ...Option) (Agent, error) {
	c := &config{ // Default values
		seed:     1,
		evaluate: game.EvaluateMobility,
	}
	for _, option := range options {
		option(c)
	}

	switch strategy {
	case Random, Greedy:
		return &StrategyAgent{
			player:   player,
			strategy: strategy,
			rng:      rand.New(rand.NewSource(c.seed)),
			evaluate: c.evaluate,
		}, nil
	case Learned:
		if c.learner == nil {
			return nil, fmt.Errorf("learned %s agent needs a learner", player)
		}
		if c.learner.Player() != player {
			return nil, fmt.Errorf("learner plays %s, not %s", c.learner.Player(), player)
		}
		if c.training {
			return NewTrainingAgent(c.learner), nil
		}
		return NewEvaluationAgent(c.learner), nil
	default:
		return nil, fmt.Errorf("unknown strategy %d", int(strategy))
	}
}
