package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentConfig struct {
	ID         int
	Player     string
	Strategy   string
	Checkpoint string // Empty for non-learning strategies
	Seed       uint64
}

type GameRecord struct {
	ID    int
	Tiger int // AgentConfig.ID
	Goat  int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// EpisodeRecord summarizes one self-play training game.
type EpisodeRecord struct {
	RunID         string  `parquet:"run_id,dict"`
	Episode       int64   `parquet:"episode"`
	Winner        string  `parquet:"winner,dict"`
	EndReason     string  `parquet:"end_reason,dict"`
	Moves         int32   `parquet:"moves"`
	Captures      int32   `parquet:"captures"`
	TigerReward   float64 `parquet:"tiger_reward"`
	GoatReward    float64 `parquet:"goat_reward"`
	TigerEpsilon  float64 `parquet:"tiger_epsilon"`
	GoatEpsilon   float64 `parquet:"goat_epsilon"`
	TigerStates   int64   `parquet:"tiger_states"`
	GoatStates    int64   `parquet:"goat_states"`
	DurationMicro int64   `parquet:"duration_us"`
}

// EvaluationRecord is the result of a learned agent against a fixed opponent.
type EvaluationRecord struct {
	Episode  int
	Player   string
	Opponent string // Opponent strategy
	Games    int
	Wins     int
	Losses   int
	Draws    int
}

func (r EvaluationRecord) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped folder under root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "player", "strategy", "checkpoint", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Player,
			config.Strategy,
			config.Checkpoint,
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "tiger", "goat", "starting_player", "winner", "end_reason", "start_time", "end_time", "duration", "total_moves", "captures", "fallbacks"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Tiger),
			strconv.Itoa(record.Goat),
			record.StartingPlayer.String(),
			record.Winner.String(),
			record.EndReason,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.Captures),
			strconv.Itoa(record.Fallbacks),
		})
	}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "captured", "fallback", "tiger_mobility", "goat_mobility", "state"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Action,
			strconv.FormatBool(record.Captured),
			strconv.FormatBool(record.Fallback),
			strconv.Itoa(record.TigerMobility),
			strconv.Itoa(record.GoatMobility),
			fmt.Sprintf("%016x", uint64(record.State)),
		})
	}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteEpisodeRecords(records []EpisodeRecord) error {
	header := []string{"episode", "winner", "end_reason", "moves", "captures", "tiger_reward", "goat_reward", "tiger_epsilon", "goat_epsilon", "tiger_states", "goat_states", "duration_us"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.FormatInt(record.Episode, 10),
			record.Winner,
			record.EndReason,
			strconv.Itoa(int(record.Moves)),
			strconv.Itoa(int(record.Captures)),
			formatFloat(record.TigerReward),
			formatFloat(record.GoatReward),
			formatFloat(record.TigerEpsilon),
			formatFloat(record.GoatEpsilon),
			strconv.FormatInt(record.TigerStates, 10),
			strconv.FormatInt(record.GoatStates, 10),
			strconv.FormatInt(record.DurationMicro, 10),
		})
	}
	return w.write("episode_records.csv", "episode records", header, rows)
}

func (w *Writer) WriteEvaluationRecords(records []EvaluationRecord) error {
	header := []string{"episode", "player", "opponent", "games", "wins", "losses", "draws", "win_rate"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Episode),
			record.Player,
			record.Opponent,
			strconv.Itoa(record.Games),
			strconv.Itoa(record.Wins),
			strconv.Itoa(record.Losses),
			strconv.Itoa(record.Draws),
			formatFloat(record.WinRate()),
		})
	}
	return w.write("evaluation_records.csv", "evaluation records", header, rows)
}

// write replaces the named file with a header and rows.
func (w *Writer) write(name, what string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", what, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
