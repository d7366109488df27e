package experiments

import (
	"time"

	"baghchal/agent"
	"baghchal/game"

	"github.com/rs/zerolog/log"
)

type ThroughputResult struct {
	Workers        int
	Games          int
	Duration       time.Duration
	GamesPerSecond float64
}

// RunThroughputExperiment measures how many random games per second the
// engine plays with an increasing number of workers.
func RunThroughputExperiment(workers []int, games, maxTurns int) ([]ThroughputResult, error) {
	// Same strategy for both sides for similar game length
	tiger := StrategyContestant(1, agent.Random, game.Tiger, 1)
	goat := StrategyContestant(2, agent.Random, game.Goat, 1)

	log.Info().Msg("starting throughput experiment...")

	results := make([]ThroughputResult, 0, len(workers))
	for _, w := range workers {
		start := time.Now()
		if _, err := PlayGames(tiger, goat, games, w, maxTurns, false); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		result := ThroughputResult{
			Workers:        w,
			Games:          games,
			Duration:       elapsed,
			GamesPerSecond: float64(games) / elapsed.Seconds(),
		}
		results = append(results, result)
		log.Info().Msgf("completed %d games with %d workers in %s (%.1f games/s)", games, w, elapsed, result.GamesPerSecond)
	}

	log.Info().Msg("completed throughput experiment")
	return results, nil
}
