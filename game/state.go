package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/pkg/errors"
)

// GameState is the full state of one game. It is mutated in place by Apply and
// must be owned by a single caller.
type GameState struct {
	Board         Board  `json:"board"`
	Phase         Phase  `json:"phase"`
	Turn          Player `json:"turn"` // Side to move
	GoatsPlaced   int    `json:"goats_placed"`
	GoatsCaptured int    `json:"goats_captured"`
	Done          bool   `json:"done"`
	Winner        Player `json:"winner"`
	MoveCount     int    `json:"move_count"`
}

// Info describes what happened while applying an action.
type Info struct {
	Mover         Player
	Captured      bool
	CapturedAt    Position
	PhaseChanged  bool
	Winner        Player
	TigerMobility int
	GoatMobility  int
}

// Outcome is the result of a successfully applied action. Reward is a small
// engine-local signal from the mover's point of view; learners shape their own.
type Outcome struct {
	State  *GameState
	Reward float64
	Done   bool
	Info   Info
}

const (
	captureReward  = 1.0
	terminalReward = 10.0
)

// NewGameState returns the opening position: tigers on the four corners, no
// goats, placement phase, goats to move.
func NewGameState() *GameState {
	gs := &GameState{
		Phase: Placement,
		Turn:  Goat,
	}
	last := BoardSize - 1
	for _, corner := range []Position{Pos(0, 0), Pos(0, last), Pos(last, 0), Pos(last, last)} {
		gs.Board.Set(corner, TigerPiece)
	}
	return gs
}

// Copy returns an independent copy of the state.
func (gs *GameState) Copy() *GameState {
	c := *gs
	return &c
}

// GoatsOnBoard returns placed minus captured goats.
func (gs *GameState) GoatsOnBoard() int {
	return gs.GoatsPlaced - gs.GoatsCaptured
}

// Player returns the side to move.
func (gs *GameState) Player() Player {
	return gs.Turn
}

// LegalActions returns every legal action of the player in a fixed row-major
// order. It is empty once the game is over.
func (gs *GameState) LegalActions(player Player) []Action {
	if gs.Done {
		return nil
	}

	if player == Goat && gs.Phase == Placement {
		actions := make([]Action, 0, NumCells)
		for i, cell := range gs.Board {
			if cell == Empty {
				p := PositionAt(i)
				actions = append(actions, Place(p.Row, p.Col))
			}
		}
		return actions
	}

	graph := Connectivity()
	var actions []Action
	for _, from := range gs.Board.Positions(player.Piece()) {
		for _, n := range graph.Neighbors(from) {
			switch gs.Board.At(n) {
			case Empty:
				actions = append(actions, Action{Kind: MoveAction, From: from, To: n})
			case GoatPiece:
				if player != Tiger {
					continue
				}
				landing, ok := graph.Landing(from, n)
				if ok && gs.Board.At(landing) == Empty {
					actions = append(actions, Action{Kind: MoveAction, From: from, To: landing})
				}
			}
		}
	}
	return actions
}

// Apply validates and applies an action for the side to move. Invalid actions
// are rejected with ErrInvalidCoordinate or ErrInvalidAction and leave the
// state untouched.
func (gs *GameState) Apply(a Action) (Outcome, error) {
	if err := gs.validate(a); err != nil {
		return Outcome{}, err
	}

	info := Info{Mover: gs.Turn}
	reward := 0.0

	switch a.Kind {
	case PlaceAction:
		gs.Board.Set(a.To, GoatPiece)
		gs.GoatsPlaced++
		if gs.Phase == Placement && gs.GoatsPlaced >= TotalGoats {
			gs.Phase = Movement
			info.PhaseChanged = true
		}
	case MoveAction:
		piece := gs.Board.At(a.From)
		gs.Board.Set(a.From, Empty)
		gs.Board.Set(a.To, piece)
		if !Connectivity().IsEdge(a.From, a.To) {
			// Validated as a jump over a goat
			over := a.Over()
			gs.Board.Set(over, Empty)
			gs.GoatsCaptured++
			info.Captured = true
			info.CapturedAt = over
			reward += captureReward
		}
	}
	gs.MoveCount++

	gs.checkWinner()
	if gs.Done {
		if gs.Winner == info.Mover {
			reward += terminalReward
		} else {
			reward -= terminalReward
		}
	} else {
		gs.Turn = gs.Turn.Opponent()
	}

	info.Winner = gs.Winner
	info.TigerMobility = gs.Board.Mobility(Tiger)
	info.GoatMobility = gs.Board.Mobility(Goat)

	return Outcome{
		State:  gs.Copy(),
		Reward: reward,
		Done:   gs.Done,
		Info:   info,
	}, nil
}

func (gs *GameState) validate(a Action) error {
	// Check coordinates
	if !a.To.Valid() {
		return errors.Wrapf(ErrInvalidCoordinate, "target %s", a.To)
	}
	if a.Kind == MoveAction && !a.From.Valid() {
		return errors.Wrapf(ErrInvalidCoordinate, "source %s", a.From)
	}

	if gs.Done {
		return ErrGameOver
	}

	switch a.Kind {
	case PlaceAction:
		if gs.Turn != Goat {
			return invalidAction("cannot place: %s cannot place pieces", gs.Turn)
		}
		if gs.Phase != Placement {
			return invalidAction("cannot place: placement phase is over")
		}
		if gs.Board.At(a.To) != Empty {
			return invalidAction("cannot place: %s is occupied", a.To)
		}
		return nil

	case MoveAction:
		if gs.Turn == Goat && gs.Phase == Placement {
			return invalidAction("cannot move: goats must be placed during the placement phase")
		}
		if gs.Board.At(a.From) != gs.Turn.Piece() {
			return invalidAction("cannot move: no %s at %s", gs.Turn, a.From)
		}
		if gs.Board.At(a.To) != Empty {
			return invalidAction("cannot move: %s is occupied", a.To)
		}

		graph := Connectivity()
		if graph.IsEdge(a.From, a.To) {
			return nil
		}
		if gs.Turn != Tiger || !a.IsJump() {
			return invalidAction("cannot move: %s is not reachable from %s", a.To, a.From)
		}

		// Capture: the midpoint must hold a goat and both hops must be lines
		over := a.Over()
		if gs.Board.At(over) != GoatPiece {
			return invalidAction("cannot capture: no goat at %s", over)
		}
		landing, ok := graph.Landing(a.From, over)
		if !ok || landing != a.To {
			return invalidAction("cannot capture: no line from %s over %s to %s", a.From, over, a.To)
		}
		return nil

	default:
		return invalidAction("unknown action kind %d", int(a.Kind))
	}
}

// checkWinner sets Done and Winner. Tigers win with enough captures; goats win
// once tigers cannot move, but only during the movement phase.
func (gs *GameState) checkWinner() {
	if gs.GoatsCaptured >= CapturesToWin {
		gs.Done = true
		gs.Winner = Tiger
		return
	}
	if gs.Phase == Movement && gs.Board.Mobility(Tiger) == 0 {
		gs.Done = true
		gs.Winner = Goat
	}
}

// Hash returns an FNV hash of the full state.
func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	for _, cell := range gs.Board {
		hasher.Write([]byte{byte(cell)})
	}
	binary.Write(hasher, binary.LittleEndian, int64(gs.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Turn))
	binary.Write(hasher, binary.LittleEndian, int64(gs.GoatsPlaced))
	binary.Write(hasher, binary.LittleEndian, int64(gs.GoatsCaptured))

	return StateHash(hasher.Sum64())
}

func (gs *GameState) String() string {
	status := fmt.Sprintf("phase=%s turn=%s placed=%d captured=%d", gs.Phase, gs.Turn, gs.GoatsPlaced, gs.GoatsCaptured)
	if gs.Done {
		status += fmt.Sprintf(" winner=%s", gs.Winner)
	}
	return gs.Board.String() + status
}
