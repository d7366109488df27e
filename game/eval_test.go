package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardHeuristics(t *testing.T) {
	t.Run("opening mobility", func(t *testing.T) {
		gs := NewGameState()
		require.Equal(t, 12, gs.Board.Mobility(Tiger), "Three steps from each corner")
		require.Equal(t, 0, gs.Board.Mobility(Goat))
	})

	t.Run("mobility matches legal movement actions", func(t *testing.T) {
		gs := setup(cornerTigers, []Position{Pos(1, 1), Pos(0, 1), Pos(2, 2), Pos(3, 3)}, Movement, Tiger, 20, 0)
		require.Equal(t, len(gs.LegalActions(Tiger)), gs.Board.Mobility(Tiger))
		require.Equal(t, len(gs.LegalActions(Goat)), gs.Board.Mobility(Goat))
	})

	t.Run("threats", func(t *testing.T) {
		gs := setup(cornerTigers, []Position{Pos(1, 1), Pos(2, 2)}, Placement, Tiger, 2, 0)
		require.False(t, gs.Board.IsVulnerable(Pos(1, 1)), "Landing on (2,2) is blocked")
		require.False(t, gs.Board.IsVulnerable(Pos(0, 0)), "Not a goat")

		gs = setup(cornerTigers, []Position{Pos(1, 1), Pos(3, 3)}, Placement, Tiger, 2, 0)
		require.Equal(t, 2, gs.Board.VulnerableGoats())
		require.Equal(t, 2, gs.Board.TigersWithJump())
		require.Equal(t, 1, gs.Board.JumpCount(Pos(0, 0)))
	})

	t.Run("formations", func(t *testing.T) {
		goats := []Position{Pos(2, 0), Pos(2, 1), Pos(2, 2), Pos(2, 3), Pos(1, 1)}
		gs := setup(cornerTigers, goats, Placement, Tiger, 5, 0)

		// Row 2 holds four in a row; (1,1) joins (2,1) and (2,2) and (2,0)
		require.Equal(t, 6, gs.Board.AdjacentPairs(GoatPiece))
		require.Equal(t, 1, gs.Board.LineRuns(GoatPiece), "A run of four counts once")
		require.Equal(t, 1, gs.Board.ContactPairs(), "Tiger (0,0) touches goat (1,1)")
		require.Equal(t, 0, gs.Board.AdjacentPairs(TigerPiece))
	})

	t.Run("diagonal runs follow graph lines only", func(t *testing.T) {
		gs := setup(cornerTigers, []Position{Pos(0, 1), Pos(1, 2), Pos(2, 3)}, Placement, Tiger, 3, 0)
		require.Equal(t, 0, gs.Board.LineRuns(GoatPiece), "(0,1)-(1,2) is not an edge")

		gs = setup(cornerTigers, []Position{Pos(1, 1), Pos(2, 2), Pos(3, 3)}, Placement, Tiger, 3, 0)
		require.Equal(t, 1, gs.Board.LineRuns(GoatPiece))
	})

	t.Run("positional counts", func(t *testing.T) {
		gs := setup([]Position{Pos(0, 0), Pos(2, 2), Pos(1, 3), Pos(4, 4)}, []Position{Pos(0, 4)}, Placement, Goat, 1, 0)
		require.Equal(t, TigerPiece, gs.Board.CenterPiece())
		require.Equal(t, 2, gs.Board.CornerCount(TigerPiece))
		require.Equal(t, 1, gs.Board.CornerCount(GoatPiece))
		require.Equal(t, 2, gs.Board.StrongPoints(TigerPiece))
		require.Equal(t, 1, gs.Board.NearestTigerDistance(Pos(0, 4)))
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("terminal scores", func(t *testing.T) {
		gs := NewGameState()
		gs.Done, gs.Winner = true, Tiger
		require.Equal(t, 1.0, EvaluateMobility(gs, Tiger))
		require.Equal(t, -1.0, EvaluateMaterial(gs, Goat))
	})

	t.Run("zero sum", func(t *testing.T) {
		gs := setup(cornerTigers, []Position{Pos(1, 1), Pos(2, 3)}, Placement, Tiger, 3, 1)
		require.InDelta(t, -EvaluateMobility(gs, Tiger), EvaluateMobility(gs, Goat), 1e-9)
		require.InDelta(t, -EvaluateMaterial(gs, Tiger), EvaluateMaterial(gs, Goat), 1e-9)
	})

	t.Run("a capture improves the tiger score", func(t *testing.T) {
		gs := setup(cornerTigers, []Position{Pos(1, 1)}, Placement, Tiger, 1, 0)

		captured := gs.Copy()
		_, err := captured.Apply(Move(0, 0, 2, 2))
		require.NoError(t, err)
		stepped := gs.Copy()
		_, err = stepped.Apply(Move(4, 4, 3, 3))
		require.NoError(t, err)

		for _, evaluate := range []Evaluate{EvaluateMaterial, EvaluateMobility} {
			require.Greater(t, evaluate(captured, Tiger), evaluate(stepped, Tiger))
		}
	})
}
