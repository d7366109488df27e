package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectivity(t *testing.T) {
	g := Connectivity()

	t.Run("traditional board has 56 edges", func(t *testing.T) {
		require.Equal(t, 56, g.EdgeCount(), "40 orthogonal + 8 main diagonal + 8 diamond edges")
		require.Len(t, g.Edges(), 56, "Edges should list every edge once")
	})

	t.Run("symmetric and loop free", func(t *testing.T) {
		for i := 0; i < NumCells; i++ {
			a := PositionAt(i)
			require.False(t, g.IsEdge(a, a), "No self edge at %s", a)
			for j := 0; j < NumCells; j++ {
				b := PositionAt(j)
				require.Equal(t, g.IsEdge(a, b), g.IsEdge(b, a), "Edge %s-%s should be symmetric", a, b)
			}
		}
	})

	t.Run("neighbor counts follow the board pattern", func(t *testing.T) {
		require.Len(t, g.Neighbors(Pos(2, 2)), 8, "Center joins all eight directions")
		require.Len(t, g.Neighbors(Pos(1, 1)), 8, "Diagonal junction joins all eight directions")
		require.Len(t, g.Neighbors(Pos(0, 0)), 3, "Corner joins row, column and diagonal")
		require.Len(t, g.Neighbors(Pos(0, 1)), 3, "Edge cell without diagonals")
		require.Len(t, g.Neighbors(Pos(0, 2)), 5, "Mid-edge point joins the diamond")
		require.Len(t, g.Neighbors(Pos(1, 2)), 4, "Odd cell has orthogonal lines only")
	})

	t.Run("diamond edges exist and odd diagonals do not", func(t *testing.T) {
		require.True(t, g.IsEdge(Pos(0, 2), Pos(1, 1)))
		require.True(t, g.IsEdge(Pos(1, 3), Pos(2, 4)))
		require.True(t, g.IsEdge(Pos(3, 1), Pos(4, 2)))
		require.False(t, g.IsEdge(Pos(0, 1), Pos(1, 2)), "No diagonal from an odd cell")
		require.False(t, g.IsEdge(Pos(0, 0), Pos(2, 2)), "Two hops are not an edge")
	})

	t.Run("neighbors are sorted row-major", func(t *testing.T) {
		for i := 0; i < NumCells; i++ {
			ns := g.Neighbors(PositionAt(i))
			for k := 1; k < len(ns); k++ {
				require.Less(t, ns[k-1].Index(), ns[k].Index())
			}
		}
	})

	t.Run("invalid positions have no edges", func(t *testing.T) {
		require.Nil(t, g.Neighbors(Pos(5, 0)))
		require.False(t, g.IsEdge(Pos(-1, 0), Pos(0, 0)))
	})
}

func TestLanding(t *testing.T) {
	g := Connectivity()

	t.Run("straight line jump", func(t *testing.T) {
		landing, ok := g.Landing(Pos(0, 0), Pos(1, 1))
		require.True(t, ok)
		require.Equal(t, Pos(2, 2), landing)
	})

	t.Run("diamond jump", func(t *testing.T) {
		landing, ok := g.Landing(Pos(0, 2), Pos(1, 1))
		require.True(t, ok)
		require.Equal(t, Pos(2, 0), landing)
	})

	t.Run("off the board", func(t *testing.T) {
		_, ok := g.Landing(Pos(1, 0), Pos(0, 0))
		require.False(t, ok)
	})

	t.Run("first hop is not a line", func(t *testing.T) {
		_, ok := g.Landing(Pos(2, 1), Pos(1, 2))
		require.False(t, ok)
	})

	t.Run("line bends at the mid-edge point", func(t *testing.T) {
		// (1,1)-(0,2) is a diamond line but nothing continues past (0,2)
		_, ok := g.Landing(Pos(1, 1), Pos(0, 2))
		require.False(t, ok)
	})
}
