package engine

import (
	"time"

	"baghchal/agent"
	"baghchal/experiments/metrics"
	"baghchal/game"
	"baghchal/gamemaster"
	"baghchal/meta"
	"baghchal/utils"

	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func WithMetrics() Option {
	return func(e *Engine) {
		e.metrics = metrics.NewCollector()
	}
}

// WithStartState plays every match from a copy of state instead of the
// opening position.
func WithStartState(state *game.GameState) Option {
	return func(e *Engine) {
		if state != nil {
			e.start = state.Copy()
		}
	}
}

// WithObserver registers a callback invoked after every applied action.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observers = append(e.observers, observer)
		}
	}
}

// Engine runs matches between a tiger and a goat agent on a private
// gamemaster engine.
type Engine struct {
	master    *gamemaster.Engine
	agents    map[game.Player]agent.Agent
	maxTurns  int
	metrics   metrics.Collector
	observers []Observer
	start     *game.GameState
	final     *game.GameState
}

func LocalEngine(tiger, goat agent.Agent, options ...Option) *Engine {
	if tiger.Player() != game.Tiger || goat.Player() != game.Goat {
		panic("agents do not match their sides")
	}

	e := &Engine{ // Default values
		master:   gamemaster.NewEngine(),
		agents:   map[game.Player]agent.Agent{game.Tiger: tiger, game.Goat: goat},
		maxTurns: meta.MAX_TURNS,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until a winner is found. The game state
// only ends on five captures or on tigers trapped in the movement phase. On
// top of that the runner applies two match rules of its own: a side to move
// with no legal action loses, in either phase, and a game still running after
// the turn cap is a draw.
func (e *Engine) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
	var state *game.GameState
	if e.start != nil {
		e.master = gamemaster.NewEngineFrom(e.start)
		state = e.master.State()
	} else {
		state, _ = e.master.Init()
	}
	gameMetric := metrics.GameMetric{
		StartingPlayer: state.Turn,
		StartTime:      time.Now(),
	}
	e.metrics.Start()

	winner := game.NoPlayer
	for turn := 1; !e.master.Done(); turn++ {
		if turn > e.maxTurns {
			gameMetric.EndReason = metrics.EndTurnLimit
			break
		}

		player := e.master.Player()
		legal := e.master.LegalActions(player)
		if len(legal) == 0 {
			winner = player.Opponent()
			gameMetric.EndReason = metrics.EndStalemate
			log.Debug().Str("player", player.String()).Int("turn", turn).Msg("No legal action")
			break
		}

		before := e.master.State()
		action, fallback := e.candidate(player, before, legal)
		outcome, err := e.master.Apply(action)
		if err != nil {
			// Only reachable if the agent's view disagrees with the engine
			log.Error().Err(err).Str("action", action.Key()).Msg("Legal action rejected")
			action, fallback = legal[0], true
			if outcome, err = e.master.Apply(action); err != nil {
				panic(err)
			}
		}

		if outcome.Info.Captured {
			gameMetric.Captures++
		}
		if fallback {
			gameMetric.Fallbacks++
		}
		e.metrics.AddMove(metrics.MoveMetric{
			Step:          turn,
			Player:        player,
			Action:        action.Key(),
			Captured:      outcome.Info.Captured,
			Fallback:      fallback,
			TigerMobility: outcome.Info.TigerMobility,
			GoatMobility:  outcome.Info.GoatMobility,
			State:         outcome.State.Hash(),
		})
		for _, observe := range e.observers {
			observe(Turn{Step: turn, Player: player, Before: before, Action: action, Outcome: outcome, Fallback: fallback})
		}
		gameMetric.TotalMoves = turn
	}

	if e.master.Done() {
		winner = e.master.Winner()
		if winner == game.Tiger {
			gameMetric.EndReason = metrics.EndCaptures
		} else {
			gameMetric.EndReason = metrics.EndTrapped
		}
	}
	e.final = e.master.State()

	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	return winner, gameMetric, e.metrics.Complete()
}

// FinalState returns the last state of the most recent Run.
func (e *Engine) FinalState() *game.GameState {
	return e.final
}

// candidate asks the agent for an action and falls back to the first legal
// action when it returns none or an illegal one.
func (e *Engine) candidate(player game.Player, state *game.GameState, legal []game.Action) (game.Action, bool) {
	action, ok := e.agents[player].SelectAction(e.master, state)
	if !ok || !utils.Contains(legal, action) {
		log.Warn().Str("player", player.String()).Str("action", action.Key()).Msg("Agent returned an invalid action, using the first legal action")
		return legal[0], true
	}
	return action, false
}
