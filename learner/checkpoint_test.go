package learner

import (
	"os"
	"path/filepath"
	"testing"

	"baghchal/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func trained(t *testing.T) *Learner {
	t.Helper()
	l := NewLearner(game.Tiger, WithAlpha(0.3), WithEpsilon(0.8, 0.99, 0.1), WithSeed(11))
	rng := rand.New(rand.NewSource(4))
	actions := []game.Action{game.Move(0, 0, 1, 1), game.Move(0, 0, 0, 1), game.Move(4, 4, 2, 2)}
	states := []string{"a", "b", "c", "d"}
	for i := 0; i < 200; i++ {
		l.Update(Transition{
			State:       states[rng.Intn(len(states))],
			Action:      actions[rng.Intn(len(actions))],
			Reward:      rng.Float64(),
			Next:        states[rng.Intn(len(states))],
			NextActions: actions,
		})
	}
	l.RecordEpisode(game.Tiger, 5)
	return l
}

func TestCheckpointRoundTrip(t *testing.T) {
	for _, name := range []string{"tiger.json", "tiger.json.zst"} {
		t.Run(name, func(t *testing.T) {
			original := trained(t)
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, original.Save(path))

			_, err := os.Stat(path + ".tmp")
			require.True(t, os.IsNotExist(err), "Temporary file should be renamed")

			loaded := NewLearner(game.Tiger)
			require.NoError(t, loaded.Load(path))

			a, b := original.Tables()
			for state, row := range a {
				for action := range row {
					require.InDelta(t, original.Value(state, action), loaded.Value(state, action), 1e-12)
				}
			}
			for state, row := range b {
				for action := range row {
					require.InDelta(t, original.Value(state, action), loaded.Value(state, action), 1e-12)
				}
			}
			la, lb := loaded.Tables()
			require.Equal(t, a.Len(), la.Len())
			require.Equal(t, b.Len(), lb.Len())
			require.Equal(t, original.Hyperparameters(), loaded.Hyperparameters())
			require.Equal(t, original.Stats(), loaded.Stats())
		})
	}
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing file leaves the learner unchanged", func(t *testing.T) {
		l := trained(t)
		before := l.Checkpoint()

		err := l.Load(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		require.Equal(t, before, l.Checkpoint())
	})

	t.Run("wrong side is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiger.json")
		require.NoError(t, trained(t).Save(path))

		goat := NewLearner(game.Goat)
		require.ErrorContains(t, goat.Load(path), "belongs to tiger")
	})

	t.Run("corrupt file falls back to empty tables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		l := trained(t)
		require.False(t, l.LoadOrEmpty(path))
		a, b := l.Tables()
		require.Zero(t, a.Len()+b.Len())

		_, ok := l.SelectAction(game.NewGameState(), game.NewGameState())
		require.True(t, ok, "Selection should still work on empty tables")
	})

	t.Run("checkpoint without hyperparameters is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiger.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"player":"tiger","table_a":{},"table_b":{}}`), 0o644))

		l := trained(t)
		before := l.Checkpoint()
		require.ErrorContains(t, l.Load(path), "invalid checkpoint hyperparameters")
		require.Equal(t, before, l.Checkpoint())

		fresh := NewLearner(game.Tiger, WithAlpha(1))
		require.False(t, fresh.LoadOrEmpty(path))
		require.Equal(t, 1.0, fresh.Hyperparameters().Alpha, "Configured hyperparameters survive the fallback")

		fresh.Update(Transition{State: "s", Action: game.Place(0, 1), Reward: 10, Done: true})
		require.InDelta(t, 5.0, fresh.Value("s", game.Place(0, 1).Key()), 1e-12, "Only one of the two tables moves")
	})

	t.Run("LoadOrEmpty loads a valid checkpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiger.json.zst")
		require.NoError(t, trained(t).Save(path))

		l := NewLearner(game.Tiger)
		require.True(t, l.LoadOrEmpty(path))
		require.Equal(t, 1, l.Stats().Episodes)
	})
}
