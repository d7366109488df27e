package game

import "fmt"

const (
	BoardSize     = 5
	NumCells      = BoardSize * BoardSize
	NumTigers     = 4
	TotalGoats    = 20 // Goats available for placement
	CapturesToWin = 5  // Captured goats needed for a tiger win
)

// Player identifies a side. The zero value NoPlayer is used where no side applies (e.g. no winner yet).
type Player int

const (
	NoPlayer Player = iota
	Goat
	Tiger
)

func (p Player) String() string {
	switch p {
	case Goat:
		return "goat"
	case Tiger:
		return "tiger"
	default:
		return "none"
	}
}

// Opponent returns the other side.
func (p Player) Opponent() Player {
	switch p {
	case Goat:
		return Tiger
	case Tiger:
		return Goat
	default:
		return NoPlayer
	}
}

// Piece returns the cell state occupied by this side's pieces.
func (p Player) Piece() Piece {
	switch p {
	case Goat:
		return GoatPiece
	case Tiger:
		return TigerPiece
	default:
		return Empty
	}
}

// ParsePlayer parses "goat" or "tiger".
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "goat":
		return Goat, nil
	case "tiger":
		return Tiger, nil
	default:
		return NoPlayer, fmt.Errorf("unknown player %q", s)
	}
}

type Phase int

const (
	Placement Phase = iota
	Movement
)

func (p Phase) String() string {
	switch p {
	case Placement:
		return "placement"
	case Movement:
		return "movement"
	default:
		panic(fmt.Sprintf("unknown phase %d", int(p)))
	}
}

// Piece is the state of a single board cell.
type Piece int8

const (
	Empty Piece = iota
	TigerPiece
	GoatPiece
)

// Owner returns the side owning the piece, or NoPlayer for an empty cell.
func (p Piece) Owner() Player {
	switch p {
	case TigerPiece:
		return Tiger
	case GoatPiece:
		return Goat
	default:
		return NoPlayer
	}
}

func (p Piece) String() string {
	switch p {
	case TigerPiece:
		return "T"
	case GoatPiece:
		return "G"
	default:
		return "."
	}
}

type StateHash uint64

// ActionSource enumerates the legal actions of a side. Both *GameState and the
// single-owner engine in gamemaster implement it.
type ActionSource interface {
	LegalActions(player Player) []Action
}

// Evaluates the game state to a score between -1 and 1 indicating how
// favorable the position is for the given side.
type Evaluate func(state *GameState, player Player) float64
