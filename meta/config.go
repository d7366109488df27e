package meta

import (
	"fmt"
	"os"
	"path/filepath"

	"baghchal/game"
	"baghchal/learner"
	"baghchal/learner/reward"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a training run.
type Config struct {
	Episodes           int    `yaml:"episodes"`
	MaxTurns           int    `yaml:"max_turns"`
	Seed               uint64 `yaml:"seed"`
	CheckpointDir      string `yaml:"checkpoint_dir"`
	CheckpointInterval int    `yaml:"checkpoint_interval"`
	Compress           bool   `yaml:"compress"` // zstd checkpoints
	Resume             bool   `yaml:"resume"`
	EvalInterval       int    `yaml:"eval_interval"`
	EvalGames          int    `yaml:"eval_games"`
	StatsWindow        int    `yaml:"stats_window"`
	OutputDir          string `yaml:"output_dir"`

	Tiger        learner.Hyperparameters `yaml:"tiger"`
	Goat         learner.Hyperparameters `yaml:"goat"`
	TigerRewards reward.TigerWeights     `yaml:"tiger_rewards"`
	GoatRewards  reward.GoatWeights      `yaml:"goat_rewards"`
}

func DefaultConfig() Config {
	return Config{
		Episodes:           EPISODES,
		MaxTurns:           MAX_TURNS,
		Seed:               1,
		CheckpointDir:      "checkpoints",
		CheckpointInterval: CHECKPOINT_INTERVAL,
		EvalInterval:       EVAL_INTERVAL,
		EvalGames:          EVAL_GAMES,
		StatsWindow:        STATS_WINDOW,
		OutputDir:          "experiments",
		Tiger:              learner.DefaultHyperparameters(),
		Goat:               learner.DefaultHyperparameters(),
		TigerRewards:       reward.DefaultTigerWeights(),
		GoatRewards:        reward.DefaultGoatWeights(),
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns)
	}
	if c.CheckpointInterval < 0 || c.EvalInterval < 0 || c.EvalGames < 0 {
		return fmt.Errorf("intervals and eval games cannot be negative")
	}
	if c.StatsWindow <= 0 {
		return fmt.Errorf("stats_window must be positive, got %d", c.StatsWindow)
	}
	for player, h := range map[string]learner.Hyperparameters{"tiger": c.Tiger, "goat": c.Goat} {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("invalid %s hyperparameters: %w", player, err)
		}
	}
	return nil
}

// Hyperparameters returns the settings of a side's learner.
func (c Config) Hyperparameters(player game.Player) learner.Hyperparameters {
	if player == game.Tiger {
		return c.Tiger
	}
	return c.Goat
}

// CheckpointPath returns where a side's tables are saved.
func (c Config) CheckpointPath(player game.Player) string {
	name := player.String() + ".json"
	if c.Compress {
		name += ".zst"
	}
	return filepath.Join(c.CheckpointDir, name)
}
