package meta

import (
	"os"
	"path/filepath"
	"testing"

	"baghchal/game"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, MAX_TURNS, cfg.MaxTurns)
	require.Equal(t, filepath.Join("checkpoints", "tiger.json"), cfg.CheckpointPath(game.Tiger))

	cfg.Compress = true
	require.Equal(t, filepath.Join("checkpoints", "goat.json.zst"), cfg.CheckpointPath(game.Goat))
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides keep unspecified defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.yaml")
		data := `
episodes: 50
compress: true
tiger:
  alpha: 0.2
  gamma: 0.9
  epsilon: 0.5
  epsilon_decay: 0.99
  epsilon_min: 0.01
goat_rewards:
  safe_landing: 3
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 50, cfg.Episodes)
		require.True(t, cfg.Compress)
		require.Equal(t, 0.2, cfg.Hyperparameters(game.Tiger).Alpha)
		require.Equal(t, DefaultConfig().Goat, cfg.Hyperparameters(game.Goat))
		require.Equal(t, 3.0, cfg.GoatRewards.SafeLanding)
		require.Equal(t, DefaultConfig().GoatRewards.WinReward, cfg.GoatRewards.WinReward)
		require.Equal(t, MAX_TURNS, cfg.MaxTurns)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("goat:\n  alpha: 2\n"), 0o644))

		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "invalid goat hyperparameters")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("episodes: [1, 2"), 0o644))

		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "failed to parse config")
	})
}
