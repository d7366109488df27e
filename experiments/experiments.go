package experiments

import (
	"fmt"
	"sync"

	"baghchal/agent"
	"baghchal/engine"
	"baghchal/experiments/metrics"
	"baghchal/game"
	"baghchal/learner"

	"github.com/rs/zerolog/log"
)

const NumGames = 30 // Per match up

// AgentFactory builds a fresh agent for the i-th game of a matchup.
type AgentFactory func(i int) (agent.Agent, error)

// Contestant is an agent configuration taking part in an experiment.
type Contestant struct {
	Config metrics.AgentConfig
	New    AgentFactory
}

// Result of a single game
type Result struct {
	Winner      game.Player
	GameMetric  metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}

// StrategyContestant plays a fixed strategy, reseeded per game.
func StrategyContestant(id int, strategy agent.Strategy, player game.Player, seed uint64) Contestant {
	return Contestant{
		Config: metrics.AgentConfig{ID: id, Player: player.String(), Strategy: strategy.String(), Seed: seed},
		New: func(i int) (agent.Agent, error) {
			return agent.New(strategy, player, agent.WithSeed(seed+uint64(i)))
		},
	}
}

// LearnedContestant plays greedily from a learner's tables. The learner is
// only read, so games may share it.
func LearnedContestant(id int, l *learner.Learner, checkpoint string) Contestant {
	return Contestant{
		Config: metrics.AgentConfig{ID: id, Player: l.Player().String(), Strategy: agent.Learned.String(), Checkpoint: checkpoint},
		New: func(int) (agent.Agent, error) {
			return agent.NewEvaluationAgent(l), nil
		},
	}
}

// PlayGames runs games between the two contestants on private engines, using
// up to workers goroutines. Results are returned in game order.
func PlayGames(tiger, goat Contestant, games, workers, maxTurns int, withMetrics bool) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	type task struct {
		i           int
		tiger, goat agent.Agent
	}
	// Agents are built up front so factory errors surface before any game runs
	tasks := make(chan task, games)
	for i := 0; i < games; i++ {
		t, err := tiger.New(i)
		if err != nil {
			return nil, fmt.Errorf("failed to create tiger agent %d: %w", tiger.Config.ID, err)
		}
		g, err := goat.New(i)
		if err != nil {
			return nil, fmt.Errorf("failed to create goat agent %d: %w", goat.Config.ID, err)
		}
		tasks <- task{i: i, tiger: t, goat: g}
	}
	close(tasks)

	results := make([]Result, games)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for t := range tasks {
				options := []engine.Option{engine.WithMaxTurns(maxTurns)}
				if withMetrics {
					options = append(options, engine.WithMetrics())
				}
				winner, gameMetric, moveMetrics := engine.LocalEngine(t.tiger, t.goat, options...).Run()
				results[t.i] = Result{Winner: winner, GameMetric: gameMetric, MoveMetrics: moveMetrics}
			}
		}()
	}
	wg.Wait()
	return results, nil
}

// EvaluateLearner plays a learner's greedy policy against a fixed strategy on
// the other side and tallies the learner's results.
func EvaluateLearner(l *learner.Learner, opponent agent.Strategy, games, workers, maxTurns int, seed uint64) (metrics.EvaluationRecord, error) {
	player := l.Player()
	learned := LearnedContestant(1, l, "")
	other := StrategyContestant(2, opponent, player.Opponent(), seed)

	tiger, goat := learned, other
	if player == game.Goat {
		tiger, goat = other, learned
	}
	results, err := PlayGames(tiger, goat, games, workers, maxTurns, false)
	if err != nil {
		return metrics.EvaluationRecord{}, err
	}

	record := metrics.EvaluationRecord{
		Player:   player.String(),
		Opponent: opponent.String(),
		Games:    games,
	}
	for _, r := range results {
		switch r.Winner {
		case player:
			record.Wins++
		case game.NoPlayer:
			record.Draws++
		default:
			record.Losses++
		}
	}
	return record, nil
}

// RunMatchups plays every matchup and stores configs and records under
// root/name.
func RunMatchups(root, name string, contestants []Contestant, matchUps [][2]Contestant, games, workers, maxTurns int) ([]metrics.GameRecord, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		tiger, goat := matchup[0], matchup[1]
		log.Info().Msgf("starting matchup %d of %d between tiger=%+v and goat=%+v...", mi+1, len(matchUps), tiger.Config, goat.Config)

		results, err := PlayGames(tiger, goat, games, workers, maxTurns, true)
		if err != nil {
			return nil, err
		}
		wins := map[game.Player]int{}
		for _, r := range results {
			count++
			wins[r.Winner]++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Tiger:      tiger.Config.ID,
				Goat:       goat.Config.ID,
				GameMetric: r.GameMetric,
			})
			for _, mm := range r.MoveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
		}
		log.Info().Msgf("completed matchup %d of %d: tiger %d, goat %d, draws %d", mi+1, len(matchUps), wins[game.Tiger], wins[game.Goat], wins[game.NoPlayer])
	}

	log.Info().Msgf("completed %s experiment", name)

	// Store experiment metadata
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	configs := make([]metrics.AgentConfig, len(contestants))
	for i, c := range contestants {
		configs[i] = c.Config
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return nil, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return nil, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return nil, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored move records")

	return gameRecords, nil
}

// RunEvaluationExperiment pits the learned agents of both sides against the
// random and greedy strategies.
func RunEvaluationExperiment(root string, tiger, goat *learner.Learner, checkpoints [2]string, games, workers, maxTurns int, seed uint64) ([]metrics.GameRecord, error) {
	learnedTiger := LearnedContestant(1, tiger, checkpoints[0])
	learnedGoat := LearnedContestant(2, goat, checkpoints[1])
	randomTiger := StrategyContestant(3, agent.Random, game.Tiger, seed)
	randomGoat := StrategyContestant(4, agent.Random, game.Goat, seed)
	greedyTiger := StrategyContestant(5, agent.Greedy, game.Tiger, seed)
	greedyGoat := StrategyContestant(6, agent.Greedy, game.Goat, seed)

	contestants := []Contestant{learnedTiger, learnedGoat, randomTiger, randomGoat, greedyTiger, greedyGoat}
	matchUps := [][2]Contestant{
		{learnedTiger, randomGoat},
		{learnedTiger, greedyGoat},
		{randomTiger, learnedGoat},
		{greedyTiger, learnedGoat},
		{learnedTiger, learnedGoat},
	}
	return RunMatchups(root, "evaluation", contestants, matchUps, games, workers, maxTurns)
}
