package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"baghchal/agent"
	"baghchal/game"
	"baghchal/learner"

	"github.com/stretchr/testify/require"
)

func TestPlayGames(t *testing.T) {
	tiger := StrategyContestant(1, agent.Random, game.Tiger, 10)
	goat := StrategyContestant(2, agent.Random, game.Goat, 20)

	sequential, err := PlayGames(tiger, goat, 8, 1, 150, false)
	require.NoError(t, err)
	parallel, err := PlayGames(tiger, goat, 8, 4, 150, false)
	require.NoError(t, err)

	require.Len(t, parallel, 8)
	for i := range sequential {
		require.Equal(t, sequential[i].Winner, parallel[i].Winner, "Game %d should not depend on scheduling", i)
		require.Equal(t, sequential[i].GameMetric.TotalMoves, parallel[i].GameMetric.TotalMoves)
	}
}

func TestPlayGamesFactoryError(t *testing.T) {
	tiger := StrategyContestant(1, agent.Learned, game.Tiger, 1)
	goat := StrategyContestant(2, agent.Random, game.Goat, 1)

	_, err := PlayGames(tiger, goat, 2, 1, 10, false)
	require.Error(t, err, "Learned strategy without a learner")
}

func TestEvaluateLearner(t *testing.T) {
	for _, player := range []game.Player{game.Tiger, game.Goat} {
		t.Run(player.String(), func(t *testing.T) {
			l := learner.NewLearner(player)
			before := l.Stats()

			record, err := EvaluateLearner(l, agent.Random, 6, 3, 100, 1)
			require.NoError(t, err)

			require.Equal(t, player.String(), record.Player)
			require.Equal(t, "random", record.Opponent)
			require.Equal(t, 6, record.Wins+record.Losses+record.Draws)
			require.Equal(t, before, l.Stats(), "Evaluation must not touch the learner")
		})
	}
}

func TestRunEvaluationExperiment(t *testing.T) {
	root := t.TempDir()
	tiger := learner.NewLearner(game.Tiger)
	goat := learner.NewLearner(game.Goat)

	records, err := RunEvaluationExperiment(root, tiger, goat, [2]string{"t.json", "g.json"}, 2, 2, 60, 1)
	require.NoError(t, err)
	require.Len(t, records, 10, "Five matchups of two games")
	require.Equal(t, 1, records[0].ID)
	require.Equal(t, 1, records[0].Tiger)
	require.Equal(t, 4, records[0].Goat)

	runs, err := os.ReadDir(filepath.Join(root, "evaluation"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
		require.FileExists(t, filepath.Join(root, "evaluation", runs[0].Name(), name))
	}
}

func TestRunThroughputExperiment(t *testing.T) {
	results, err := RunThroughputExperiment([]int{1, 2}, 4, 50)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 2, results[1].Workers)
	require.Positive(t, results[0].GamesPerSecond)
}
