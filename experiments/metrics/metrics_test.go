package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"baghchal/game"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.AddMove(MoveMetric{Step: 1, Player: game.Goat, Action: "place,2,2"})
	c.AddMove(MoveMetric{Step: 2, Player: game.Tiger, Action: "move,0,0,1,1"})

	moves := c.Complete()
	require.Len(t, moves, 2)
	require.Equal(t, "move,0,0,1,1", moves[1].Action)
	require.Empty(t, c.Complete(), "Complete drains the collector")

	require.Nil(t, NewDummyCollector().Complete())
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "evaluation")
	require.NoError(t, err)

	t.Run("game records", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{{
			ID:    1,
			Tiger: 2,
			Goat:  3,
			GameMetric: GameMetric{
				StartingPlayer: game.Goat,
				Winner:         game.Tiger,
				EndReason:      EndCaptures,
				StartTime:      start,
				EndTime:        start.Add(time.Second),
				Duration:       time.Second,
				TotalMoves:     41,
				Captures:       5,
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"1", "2", "3", "goat", "tiger", "captures", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "41", "5", "0"}, rows[1])
	})

	t.Run("evaluation records", func(t *testing.T) {
		err := w.WriteEvaluationRecords([]EvaluationRecord{
			{Episode: 100, Player: "tiger", Opponent: "random", Games: 4, Wins: 3, Losses: 1},
			{Episode: 100, Player: "goat", Opponent: "greedy"},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "evaluation_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "0.7500", rows[1][7])
		require.Equal(t, "0.0000", rows[2][7], "No games means a zero win rate")
	})

	t.Run("rewrites replace the file", func(t *testing.T) {
		records := []EpisodeRecord{{Episode: 1, Winner: "goat"}, {Episode: 2, Winner: "tiger"}}
		require.NoError(t, w.WriteEpisodeRecords(records[:1]))
		require.NoError(t, w.WriteEpisodeRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "episode_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "tiger", rows[2][1])
	})

	t.Run("agent configs and moves", func(t *testing.T) {
		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Player: "tiger", Strategy: "learned", Checkpoint: "tiger.json", Seed: 7}}))
		require.NoError(t, w.WriteMoveRecords([]MoveRecord{{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: game.Goat, Action: "place,0,1", State: 0xbeef}}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, []string{"1", "tiger", "learned", "tiger.json", "7"}, rows[1])
		rows = readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Equal(t, "place,0,1", rows[1][3])
		require.Equal(t, "000000000000beef", rows[1][8])
	})
}

func TestEpisodeWriter(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewEpisodeWriter(dir)
		require.NoError(t, err)
		require.NotEmpty(t, w.RunID())

		require.NoError(t, w.Write([]EpisodeRecord{{Episode: 1, Winner: "tiger", Captures: 5}}))
		require.NoError(t, w.Write([]EpisodeRecord{{Episode: 2, Winner: "goat", Moves: 90}}))
		require.NoError(t, w.Close())
		require.Error(t, w.Write([]EpisodeRecord{{Episode: 3}}), "Closed writer rejects rows")

		rows, err := ReadEpisodes(w.OutPath())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, w.RunID(), rows[0].RunID)
		require.Equal(t, int32(5), rows[0].Captures)
		require.Equal(t, int32(90), rows[1].Moves)
	})

	t.Run("empty run leaves no file", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewEpisodeWriter(dir)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}
