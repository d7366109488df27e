package gamemaster

import (
	"baghchal/game"
)

// Update is one applied action and the state right after it.
type Update struct {
	Action game.Action
	State  *game.GameState
}

// UpdateGetter returns the next unread update, or false when there is none.
type UpdateGetter func() (Update, bool)

// Engine owns the state of a single match. All mutation goes through Apply.
// It is not safe for concurrent use; run one Engine per concurrent match.
type Engine struct {
	state   *game.GameState
	history []Update
	read    int
}

func NewEngine() *Engine {
	return &Engine{state: game.NewGameState()}
}

// NewEngineFrom starts an engine from a copy of an existing state.
func NewEngineFrom(state *game.GameState) *Engine {
	return &Engine{state: state.Copy()}
}

// Init resets the engine to the opening position and returns a copy of it
// with a getter for the updates that follow.
func (e *Engine) Init() (*game.GameState, UpdateGetter) {
	e.Reset()
	return e.State(), func() (Update, bool) {
		if e.read >= len(e.history) {
			return Update{}, false
		}
		u := e.history[e.read]
		e.read++
		return Update{Action: u.Action, State: u.State.Copy()}, true
	}
}

// Reset restarts the match and clears the update history.
func (e *Engine) Reset() {
	e.state = game.NewGameState()
	e.history = nil
	e.read = 0
}

// State returns a copy of the current state.
func (e *Engine) State() *game.GameState {
	return e.state.Copy()
}

func (e *Engine) Player() game.Player {
	return e.state.Turn
}

func (e *Engine) LegalActions(player game.Player) []game.Action {
	return e.state.LegalActions(player)
}

// Apply plays an action for the side to move. Rejected actions leave the
// state and history unchanged.
func (e *Engine) Apply(action game.Action) (game.Outcome, error) {
	outcome, err := e.state.Apply(action)
	if err != nil {
		return game.Outcome{}, err
	}
	e.history = append(e.history, Update{Action: action, State: outcome.State})
	return outcome, nil
}

func (e *Engine) Done() bool {
	return e.state.Done
}

func (e *Engine) Winner() game.Player {
	return e.state.Winner
}

// History returns every applied action in order.
func (e *Engine) History() []game.Action {
	actions := make([]game.Action, len(e.history))
	for i, u := range e.history {
		actions[i] = u.Action
	}
	return actions
}
