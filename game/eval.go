package game

import "math"

// Mobility counts the moves available to a side straight from the board,
// without building actions. Tiger mobility includes jumps. Goat mobility
// counts movement steps only and ignores the placement phase.
func (b *Board) Mobility(player Player) int {
	graph := Connectivity()
	count := 0
	for _, from := range b.Positions(player.Piece()) {
		for _, n := range graph.Neighbors(from) {
			switch b.At(n) {
			case Empty:
				count++
			case GoatPiece:
				if player == Tiger && b.canJump(from, n) {
					count++
				}
			}
		}
	}
	return count
}

// canJump reports whether a tiger on `from` can capture the goat on `over`.
func (b *Board) canJump(from, over Position) bool {
	landing, ok := Connectivity().Landing(from, over)
	return ok && b.At(landing) == Empty
}

// JumpCount returns the number of captures available to the tiger on p.
func (b *Board) JumpCount(p Position) int {
	count := 0
	for _, n := range Connectivity().Neighbors(p) {
		if b.At(n) == GoatPiece && b.canJump(p, n) {
			count++
		}
	}
	return count
}

// IsVulnerable reports whether any tiger can capture the goat on p.
func (b *Board) IsVulnerable(p Position) bool {
	if b.At(p) != GoatPiece {
		return false
	}
	for _, n := range Connectivity().Neighbors(p) {
		if b.At(n) == TigerPiece && b.canJump(n, p) {
			return true
		}
	}
	return false
}

// VulnerableGoats counts goats one hop away from being captured.
func (b *Board) VulnerableGoats() int {
	count := 0
	for _, p := range b.Positions(GoatPiece) {
		if b.IsVulnerable(p) {
			count++
		}
	}
	return count
}

// TigersWithJump counts tigers that have at least one capture available.
func (b *Board) TigersWithJump() int {
	count := 0
	for _, p := range b.Positions(TigerPiece) {
		if b.JumpCount(p) > 0 {
			count++
		}
	}
	return count
}

// AdjacentPairs counts edges whose both ends hold the given piece.
func (b *Board) AdjacentPairs(piece Piece) int {
	count := 0
	for _, edge := range Connectivity().Edges() {
		if b.At(edge[0]) == piece && b.At(edge[1]) == piece {
			count++
		}
	}
	return count
}

// ContactPairs counts edges joining a tiger and a goat.
func (b *Board) ContactPairs() int {
	count := 0
	for _, edge := range Connectivity().Edges() {
		x, y := b.At(edge[0]), b.At(edge[1])
		if (x == TigerPiece && y == GoatPiece) || (x == GoatPiece && y == TigerPiece) {
			count++
		}
	}
	return count
}

// LineRuns counts maximal runs of three or more of the given piece lying
// consecutively along a single line of the board.
func (b *Board) LineRuns(piece Piece) int {
	graph := Connectivity()
	runs := 0
	for _, p := range b.Positions(piece) {
		for _, n := range graph.Neighbors(p) {
			dr, dc := n.Row-p.Row, n.Col-p.Col
			// Walk each line in one direction only
			if dr < 0 || (dr == 0 && dc < 0) {
				continue
			}
			// Only start from the first piece of a run
			prev := p.add(-dr, -dc)
			if graph.IsEdge(prev, p) && b.At(prev) == piece {
				continue
			}
			length := 1
			cur, next := p, n
			for graph.IsEdge(cur, next) && b.At(next) == piece {
				length++
				cur, next = next, next.add(dr, dc)
			}
			if length >= 3 {
				runs++
			}
		}
	}
	return runs
}

// NearestTigerDistance returns the king-move distance from p to the closest tiger.
func (b *Board) NearestTigerDistance(p Position) int {
	best := math.MaxInt
	for _, t := range b.Positions(TigerPiece) {
		d := max(abs(t.Row-p.Row), abs(t.Col-p.Col))
		if d < best {
			best = d
		}
	}
	return best
}

var center = Pos(BoardSize/2, BoardSize/2)

// Corners of the board in row-major order
var corners = [4]Position{{0, 0}, {0, BoardSize - 1}, {BoardSize - 1, 0}, {BoardSize - 1, BoardSize - 1}}

// CenterPiece returns the piece on the center point.
func (b *Board) CenterPiece() Piece {
	return b.At(center)
}

// CornerCount counts corners holding the given piece.
func (b *Board) CornerCount(piece Piece) int {
	count := 0
	for _, c := range corners {
		if b.At(c) == piece {
			count++
		}
	}
	return count
}

// StrongPoints counts pieces on the eight-way junctions (cells where diagonals meet).
func (b *Board) StrongPoints(piece Piece) int {
	count := 0
	for _, p := range b.Positions(piece) {
		if len(Connectivity().Neighbors(p)) == 8 {
			count++
		}
	}
	return count
}

// EvaluateMaterial scores captures against goats still to be captured, from
// the player's perspective.
func EvaluateMaterial(gs *GameState, player Player) float64 {
	if gs.Done {
		return terminalScore(gs, player)
	}
	tigerScore := float64(gs.GoatsCaptured) / CapturesToWin
	goatScore := float64(gs.GoatsOnBoard()+TotalGoats-gs.GoatsPlaced) / TotalGoats
	return perspective(normalize(tigerScore, goatScore), player)
}

// EvaluateMobility adds tiger mobility and capture threats to material, from
// the player's perspective.
func EvaluateMobility(gs *GameState, player Player) float64 {
	if gs.Done {
		return terminalScore(gs, player)
	}
	material := EvaluateMaterial(gs, Tiger)
	mobility := normalize(float64(gs.Board.Mobility(Tiger)), float64(2*NumTigers))
	threats := normalize(float64(gs.Board.VulnerableGoats()), 1)
	return perspective((3*material+mobility+threats)/5, player)
}

func terminalScore(gs *GameState, player Player) float64 {
	switch gs.Winner {
	case player:
		return 1
	case NoPlayer:
		return 0
	default:
		return -1
	}
}

// perspective flips a tiger-positive score for goats.
func perspective(tigerScore float64, player Player) float64 {
	if player == Goat {
		return -tigerScore
	}
	return tigerScore
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
