package learner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"baghchal/game"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// Checkpoint is the persisted form of a learner. Tables are always saved and
// loaded as a whole.
type Checkpoint struct {
	Player          string          `json:"player"`
	TableA          Table           `json:"table_a"`
	TableB          Table           `json:"table_b"`
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	TrainingStats   TrainingStats   `json:"training_stats"`
}

// Checkpoint snapshots the learner. The tables are copied.
func (l *Learner) Checkpoint() Checkpoint {
	return Checkpoint{
		Player:          l.player.String(),
		TableA:          l.a.Clone(),
		TableB:          l.b.Clone(),
		Hyperparameters: l.params,
		TrainingStats:   l.stats,
	}
}

// Restore replaces tables, hyperparameters and stats with the checkpoint's.
func (l *Learner) Restore(cp Checkpoint) error {
	player, err := game.ParsePlayer(cp.Player)
	if err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}
	if player != l.player {
		return fmt.Errorf("checkpoint belongs to %s, not %s", player, l.player)
	}
	if err := cp.Hyperparameters.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint hyperparameters: %w", err)
	}

	l.a, l.b = cp.TableA, cp.TableB
	if l.a == nil {
		l.a = NewTable()
	}
	if l.b == nil {
		l.b = NewTable()
	}
	l.params = cp.Hyperparameters
	l.stats = cp.TrainingStats
	return nil
}

// Save writes the learner to path. Paths ending in .zst are zstd compressed.
// The file is written to a temporary sibling and renamed into place.
func (l *Learner) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint: %w", err)
	}
	if err := encode(f, path, l.Checkpoint()); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename checkpoint: %w", err)
	}

	log.Debug().Str("player", l.player.String()).Str("path", path).Int("entries", l.a.Len()+l.b.Len()).Msg("Saved checkpoint")
	return nil
}

func encode(w io.Writer, path string, cp Checkpoint) error {
	if !compressed(path) {
		if err := json.NewEncoder(w).Encode(cp); err != nil {
			return fmt.Errorf("failed to encode checkpoint: %w", err)
		}
		return nil
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(cp); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd writer: %w", err)
	}
	return nil
}

// Load replaces the learner's state with the checkpoint at path. On error the
// learner is left unchanged.
func (l *Learner) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var cp Checkpoint
	if err := json.NewDecoder(r).Decode(&cp); err != nil {
		return fmt.Errorf("failed to decode checkpoint %s: %w", path, err)
	}
	return l.Restore(cp)
}

// LoadOrEmpty loads the checkpoint at path, falling back to empty tables when
// it is missing or corrupt. It reports whether the checkpoint was loaded.
func (l *Learner) LoadOrEmpty(path string) bool {
	if err := l.Load(path); err != nil {
		log.Warn().Err(err).Str("player", l.player.String()).Str("path", path).Msg("Using empty tables")
		l.a, l.b = NewTable(), NewTable()
		return false
	}
	log.Info().Str("player", l.player.String()).Str("path", path).Int("states", l.a.States()).Msg("Loaded checkpoint")
	return true
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
