// Package learner implements tabular double Q-learning with two value tables
// per side and an epsilon-greedy exploration schedule.
package learner

import (
	"fmt"
	"math"

	"baghchal/game"
	"baghchal/game/features"

	"golang.org/x/exp/rand"
)

// Hyperparameters of one learner. Epsilon is the current exploration rate and
// changes as the learner trains.
type Hyperparameters struct {
	Alpha        float64 `json:"alpha" yaml:"alpha"`
	Gamma        float64 `json:"gamma" yaml:"gamma"`
	Epsilon      float64 `json:"epsilon" yaml:"epsilon"`
	EpsilonDecay float64 `json:"epsilon_decay" yaml:"epsilon_decay"`
	EpsilonMin   float64 `json:"epsilon_min" yaml:"epsilon_min"`
}

func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Alpha:        0.1,
		Gamma:        0.95,
		Epsilon:      1.0,
		EpsilonDecay: 0.9995,
		EpsilonMin:   0.05,
	}
}

// Validate reports the first hyperparameter outside its range.
func (h Hyperparameters) Validate() error {
	switch {
	case h.Alpha <= 0 || h.Alpha > 1:
		return fmt.Errorf("alpha %v outside (0, 1]", h.Alpha)
	case h.Gamma < 0 || h.Gamma > 1:
		return fmt.Errorf("gamma %v outside [0, 1]", h.Gamma)
	case h.Epsilon < 0 || h.Epsilon > 1:
		return fmt.Errorf("epsilon %v outside [0, 1]", h.Epsilon)
	case h.EpsilonDecay <= 0 || h.EpsilonDecay > 1:
		return fmt.Errorf("epsilon_decay %v outside (0, 1]", h.EpsilonDecay)
	case h.EpsilonMin < 0 || h.EpsilonMin > h.Epsilon:
		return fmt.Errorf("epsilon_min %v outside [0, epsilon]", h.EpsilonMin)
	}
	return nil
}

// TrainingStats accumulate over the lifetime of a learner, across checkpoints.
type TrainingStats struct {
	Episodes      int `json:"episodes"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Draws         int `json:"draws"`
	Captures      int `json:"captures"`
	Explorations  int `json:"explorations"`
	Exploitations int `json:"exploitations"`
	Updates       int `json:"updates"`
}

// Transition is one step of experience from the learner's own point of view.
// Next is the key of the state where the learner moves again, and NextActions
// are its legal actions there.
type Transition struct {
	State       string
	Action      game.Action
	Reward      float64
	Next        string
	NextActions []game.Action
	Done        bool
}

type Option func(l *Learner)

func WithHyperparameters(h Hyperparameters) Option {
	return func(l *Learner) {
		WithAlpha(h.Alpha)(l)
		WithGamma(h.Gamma)(l)
		WithEpsilon(h.Epsilon, h.EpsilonDecay, h.EpsilonMin)(l)
	}
}

func WithAlpha(alpha float64) Option {
	return func(l *Learner) {
		if alpha > 0 && alpha <= 1 {
			l.params.Alpha = alpha
		}
	}
}

func WithGamma(gamma float64) Option {
	return func(l *Learner) {
		if gamma >= 0 && gamma <= 1 {
			l.params.Gamma = gamma
		}
	}
}

// WithEpsilon sets the starting exploration rate, its per-transition decay
// factor and its floor.
func WithEpsilon(start, decay, floor float64) Option {
	return func(l *Learner) {
		if start >= 0 && start <= 1 {
			l.params.Epsilon = start
		}
		if decay > 0 && decay <= 1 {
			l.params.EpsilonDecay = decay
		}
		if floor >= 0 && floor <= 1 {
			l.params.EpsilonMin = floor
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(l *Learner) {
		l.rng = rand.New(rand.NewSource(seed))
	}
}

// Learner holds the table pair of one side. It is not safe for concurrent
// use; the trainer owns it and updates it synchronously.
type Learner struct {
	player game.Player
	params Hyperparameters
	a      Table
	b      Table
	rng    *rand.Rand
	stats  TrainingStats
}

func NewLearner(player game.Player, options ...Option) *Learner {
	l := &Learner{ // Default values
		player: player,
		params: DefaultHyperparameters(),
		a:      NewTable(),
		b:      NewTable(),
		rng:    rand.New(rand.NewSource(1)),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *Learner) Player() game.Player {
	return l.player
}

func (l *Learner) Hyperparameters() Hyperparameters {
	return l.params
}

func (l *Learner) Epsilon() float64 {
	return l.params.Epsilon
}

func (l *Learner) Stats() TrainingStats {
	return l.stats
}

// Tables returns the live table pair.
func (l *Learner) Tables() (a, b Table) {
	return l.a, l.b
}

// Key returns the table key of a state from this learner's perspective.
func (l *Learner) Key(state *game.GameState) string {
	return features.StateKey(state, l.player)
}

// Value is the average of both tables, used for action selection.
func (l *Learner) Value(state, action string) float64 {
	return (l.a.Get(state, action) + l.b.Get(state, action)) / 2
}

// SelectAction picks an epsilon-greedy action among the legal actions
// reported by src. It returns false only when there is no legal action.
func (l *Learner) SelectAction(src game.ActionSource, state *game.GameState) (game.Action, bool) {
	actions := src.LegalActions(l.player)
	if len(actions) == 0 {
		return game.Action{}, false
	}

	if l.rng.Float64() < l.params.Epsilon {
		l.stats.Explorations++
		return actions[l.rng.Intn(len(actions))], true
	}
	l.stats.Exploitations++
	return l.Greedy(l.Key(state), actions), true
}

// Greedy returns the action with the highest averaged value. Ties go to the
// earliest action in the list.
func (l *Learner) Greedy(state string, actions []game.Action) game.Action {
	return argmax(actions, func(action string) float64 {
		return l.Value(state, action)
	})
}

// Update applies one double Q-learning step and decays epsilon. It returns
// the temporal difference before the update.
func (l *Learner) Update(t Transition) float64 {
	update, evaluate := l.a, l.b
	if l.rng.Intn(2) == 1 {
		update, evaluate = l.b, l.a
	}

	target := t.Reward
	if !t.Done && len(t.NextActions) > 0 {
		best := argmax(t.NextActions, func(action string) float64 {
			return update.Get(t.Next, action)
		})
		target += l.params.Gamma * evaluate.Get(t.Next, best.Key())
	}

	action := t.Action.Key()
	current := update.Get(t.State, action)
	delta := target - current
	update.Set(t.State, action, current+l.params.Alpha*delta)

	l.params.Epsilon = math.Max(l.params.EpsilonMin, l.params.Epsilon*l.params.EpsilonDecay)
	l.stats.Updates++
	return delta
}

// Learn builds a transition from full states and applies it. NextActions are
// the learner's legal actions in after.
func (l *Learner) Learn(before *game.GameState, action game.Action, reward float64, after *game.GameState, done bool) float64 {
	t := Transition{
		State:  l.Key(before),
		Action: action,
		Reward: reward,
		Next:   l.Key(after),
		Done:   done,
	}
	if !done {
		t.NextActions = after.LegalActions(l.player)
	}
	return l.Update(t)
}

// RecordEpisode updates the episode counters once a game ends.
func (l *Learner) RecordEpisode(winner game.Player, captures int) {
	l.stats.Episodes++
	l.stats.Captures += captures
	switch winner {
	case l.player:
		l.stats.Wins++
	case game.NoPlayer:
		l.stats.Draws++
	default:
		l.stats.Losses++
	}
}

// argmax returns the first action with the highest value.
func argmax(actions []game.Action, value func(action string) float64) game.Action {
	best := 0
	bestValue := math.Inf(-1)
	for i, a := range actions {
		if v := value(a.Key()); v > bestValue {
			best, bestValue = i, v
		}
	}
	return actions[best]
}
