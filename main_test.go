package main

import (
	"os"
	"path/filepath"
	"testing"

	"baghchal/game"
	"baghchal/learner"

	"github.com/stretchr/testify/require"
)

func TestNewAgent(t *testing.T) {
	t.Run("learned agent without a checkpoint plays on empty tables", func(t *testing.T) {
		a, err := newAgent("learned", game.Tiger, filepath.Join(t.TempDir(), "missing.json"), 1)
		require.NoError(t, err)
		require.Equal(t, game.Tiger, a.Player())

		gs := game.NewGameState()
		gs.Turn = game.Tiger
		action, ok := a.SelectAction(gs, gs)
		require.True(t, ok)
		require.Contains(t, gs.LegalActions(game.Tiger), action)
	})

	t.Run("learned agent with a corrupt checkpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goat.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		a, err := newAgent("learned", game.Goat, path, 1)
		require.NoError(t, err)

		gs := game.NewGameState()
		action, ok := a.SelectAction(gs, gs)
		require.True(t, ok)
		require.Contains(t, gs.LegalActions(game.Goat), action)
	})

	t.Run("learned agent loads a saved checkpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goat.json")
		l := learner.NewLearner(game.Goat)
		gs := game.NewGameState()
		l.Learn(gs, game.Place(2, 2), 10, gs, true)
		require.NoError(t, l.Save(path))

		a, err := newAgent("learned", game.Goat, path, 1)
		require.NoError(t, err)
		action, ok := a.SelectAction(gs, gs)
		require.True(t, ok)
		require.Equal(t, game.Place(2, 2), action, "Greedy play follows the loaded values")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := newAgent("minimax", game.Goat, "", 1)
		require.Error(t, err)
	})
}
