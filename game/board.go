package game

import "fmt"

// Position is a board coordinate. Rows and columns range over 0..4.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// PositionAt returns the position with the given row-major index.
func PositionAt(index int) Position {
	return Position{Row: index / BoardSize, Col: index % BoardSize}
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Index returns the row-major index of the position. Only meaningful for valid positions.
func (p Position) Index() int {
	return p.Row*BoardSize + p.Col
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Position) add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Board maps every position to its cell state, indexed row-major.
type Board [NumCells]Piece

func (b *Board) At(p Position) Piece {
	return b[p.Index()]
}

func (b *Board) Set(p Position, piece Piece) {
	b[p.Index()] = piece
}

// Positions returns the positions holding the given piece in row-major order.
func (b *Board) Positions(piece Piece) []Position {
	var positions []Position
	for i, cell := range b {
		if cell == piece {
			positions = append(positions, PositionAt(i))
		}
	}
	return positions
}

// Count returns the number of cells holding the given piece.
func (b *Board) Count(piece Piece) int {
	n := 0
	for _, cell := range b {
		if cell == piece {
			n++
		}
	}
	return n
}

func (b *Board) String() string {
	s := ""
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if c > 0 {
				s += " "
			}
			s += b.At(Pos(r, c)).String()
		}
		s += "\n"
	}
	return s
}
