package features

import (
	"testing"

	"baghchal/game"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("opening position", func(t *testing.T) {
		v := Encode(game.NewGameState(), game.Goat)

		require.Equal(t, 0.0, v[PhaseFlag])
		require.Equal(t, 0.0, v[PlacementProgress])
		require.Equal(t, 0.0, v[PerspectiveFlag])
		require.Equal(t, 1.0, v[TigersOnCorners])
		require.InDelta(t, 21.0/25, v[EmptyCells], 1e-9)
		require.InDelta(t, 12.0/32, v[TigerMobility], 1e-9)
		require.Equal(t, 0.0, v[VulnerableGoats])
	})

	t.Run("threats and perspective", func(t *testing.T) {
		gs := game.NewGameState()
		_, err := gs.Apply(game.Place(1, 1))
		require.NoError(t, err)

		tiger := Encode(gs, game.Tiger)
		goat := Encode(gs, game.Goat)

		require.Equal(t, 1.0, tiger[PerspectiveFlag])
		require.InDelta(t, 1.0/20, tiger[VulnerableGoats], 1e-9, "Goat on (1,1) can be jumped from (0,0)")
		require.InDelta(t, 1.0/4, tiger[TigersWithJump], 1e-9)
		require.NotEqual(t, Key(tiger), Key(goat), "Perspective changes the key")
	})

	t.Run("values stay within [0, 1]", func(t *testing.T) {
		gs := game.NewGameState()
		for _, a := range gs.LegalActions(game.Goat)[:10] {
			_, err := gs.Apply(a)
			require.NoError(t, err)
			gs.Turn = game.Goat
		}
		for _, x := range Encode(gs, game.Goat) {
			require.GreaterOrEqual(t, x, 0.0)
			require.LessOrEqual(t, x, 1.0)
		}
	})
}

func TestKey(t *testing.T) {
	t.Run("deterministic and fixed length", func(t *testing.T) {
		a := StateKey(game.NewGameState(), game.Tiger)
		b := StateKey(game.NewGameState(), game.Tiger)

		require.Equal(t, a, b)
		require.Len(t, a, 16)
	})

	t.Run("mirror positions alias to one key", func(t *testing.T) {
		left := game.NewGameState()
		_, err := left.Apply(game.Place(0, 1))
		require.NoError(t, err)

		right := game.NewGameState()
		_, err = right.Apply(game.Place(0, 3))
		require.NoError(t, err)

		require.NotEqual(t, left.Hash(), right.Hash())
		require.Equal(t, StateKey(left, game.Goat), StateKey(right, game.Goat), "Symmetric states share features")
	})

	t.Run("small differences below precision collapse", func(t *testing.T) {
		var a, b Vector
		a[GoatMobility] = 0.5
		b[GoatMobility] = 0.5 + 1e-4
		require.Equal(t, Key(a), Key(b))
	})
}
