package game

import (
	"sort"
	"sync"
)

// Graph is the connectivity of the board: the set of position pairs joined by a
// line. It is immutable once built and safe to share between games.
type Graph struct {
	adjacent  [NumCells][NumCells]bool
	neighbors [NumCells][]Position
	edges     int
}

var (
	traditional     *Graph
	traditionalOnce sync.Once
)

// Connectivity returns the shared graph of the traditional Baghchal board.
func Connectivity() *Graph {
	traditionalOnce.Do(func() {
		traditional = createTraditionalGraph()
	})
	return traditional
}

// Diamond lines joining the mid-edge points through (1,1), (1,3), (3,1) and (3,3)
var diamondLines = [4][3]Position{
	{{0, 2}, {1, 1}, {2, 0}},
	{{0, 2}, {1, 3}, {2, 4}},
	{{2, 0}, {3, 1}, {4, 2}},
	{{2, 4}, {3, 3}, {4, 2}},
}

func createTraditionalGraph() *Graph {
	g := &Graph{}

	// Rows and columns
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			p := Pos(r, c)
			if c+1 < BoardSize {
				g.addEdge(p, Pos(r, c+1))
			}
			if r+1 < BoardSize {
				g.addEdge(p, Pos(r+1, c))
			}
		}
	}

	// Both main diagonals
	for i := 0; i+1 < BoardSize; i++ {
		g.addEdge(Pos(i, i), Pos(i+1, i+1))
		g.addEdge(Pos(i, BoardSize-1-i), Pos(i+1, BoardSize-2-i))
	}

	for _, line := range diamondLines {
		g.addEdge(line[0], line[1])
		g.addEdge(line[1], line[2])
	}

	// Neighbor lists are scanned in row-major order by the move generator
	for i := range g.neighbors {
		sort.Slice(g.neighbors[i], func(a, b int) bool {
			return g.neighbors[i][a].Index() < g.neighbors[i][b].Index()
		})
	}
	return g
}

// addEdge adds a bidirectional edge, ignoring duplicates and self edges.
func (g *Graph) addEdge(a, b Position) {
	if a == b || g.adjacent[a.Index()][b.Index()] {
		return
	}
	g.adjacent[a.Index()][b.Index()] = true
	g.adjacent[b.Index()][a.Index()] = true
	g.neighbors[a.Index()] = append(g.neighbors[a.Index()], b)
	g.neighbors[b.Index()] = append(g.neighbors[b.Index()], a)
	g.edges++
}

// Neighbors returns the positions joined to p, in row-major order.
// The returned slice is shared and must not be modified.
func (g *Graph) Neighbors(p Position) []Position {
	if !p.Valid() {
		return nil
	}
	return g.neighbors[p.Index()]
}

// IsEdge reports whether a and b are joined by a line.
func (g *Graph) IsEdge(a, b Position) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	return g.adjacent[a.Index()][b.Index()]
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Edges returns every undirected edge once, lower index first.
func (g *Graph) Edges() [][2]Position {
	edges := make([][2]Position, 0, g.edges)
	for i := 0; i < NumCells; i++ {
		for _, n := range g.neighbors[i] {
			if n.Index() > i {
				edges = append(edges, [2]Position{PositionAt(i), n})
			}
		}
	}
	return edges
}

// Landing returns the cell reached by jumping from `from` over `over` along the
// same line. Both hops must be graph edges; landing off the board or on a
// missing line is reported with ok=false.
func (g *Graph) Landing(from, over Position) (landing Position, ok bool) {
	if !g.IsEdge(from, over) {
		return Position{}, false
	}
	landing = over.add(over.Row-from.Row, over.Col-from.Col)
	if !g.IsEdge(over, landing) {
		return Position{}, false
	}
	return landing, true
}
