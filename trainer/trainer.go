// Package trainer runs sequential self-play between a tiger and a goat
// learner, with periodic checkpoints and evaluation.
package trainer

import (
	"context"
	"fmt"
	"time"

	"baghchal/agent"
	"baghchal/engine"
	"baghchal/experiments"
	"baghchal/experiments/metrics"
	"baghchal/game"
	"baghchal/learner"
	"baghchal/learner/reward"
	"baghchal/meta"

	"github.com/rs/zerolog/log"
)

// Progress is reported after every episode.
type Progress struct {
	Episode      int
	Episodes     int
	Winner       game.Player
	Window       WindowStats
	TigerEpsilon float64
	GoatEpsilon  float64
	TigerStates  int
	GoatStates   int
	Evaluations  []metrics.EvaluationRecord // Most recent evaluation
	Elapsed      time.Duration
}

type Option func(t *Trainer)

// WithProgress sends progress updates on ch. Updates are dropped while the
// receiver is busy.
func WithProgress(ch chan<- Progress) Option {
	return func(t *Trainer) {
		t.progress = ch
	}
}

func WithShapers(tiger, goat reward.Shaper) Option {
	return func(t *Trainer) {
		if tiger != nil {
			t.shapers[game.Tiger] = tiger
		}
		if goat != nil {
			t.shapers[game.Goat] = goat
		}
	}
}

// WithEvalWorkers sets the goroutines used for evaluation games.
func WithEvalWorkers(workers int) Option {
	return func(t *Trainer) {
		if workers > 0 {
			t.evalWorkers = workers
		}
	}
}

type Trainer struct {
	cfg         meta.Config
	learners    map[game.Player]*learner.Learner
	shapers     map[game.Player]reward.Shaper
	progress    chan<- Progress
	evalWorkers int

	window      *window
	records     []metrics.EpisodeRecord
	unflushed   []metrics.EpisodeRecord
	evaluations []metrics.EvaluationRecord
	latest      []metrics.EvaluationRecord
}

func New(cfg meta.Config, options ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	t := &Trainer{ // Default values
		cfg:         cfg,
		learners:    make(map[game.Player]*learner.Learner),
		shapers:     make(map[game.Player]reward.Shaper),
		evalWorkers: 4,
		window:      newWindow(cfg.StatsWindow),
	}
	for i, player := range []game.Player{game.Tiger, game.Goat} {
		t.learners[player] = learner.NewLearner(player,
			learner.WithHyperparameters(cfg.Hyperparameters(player)),
			learner.WithSeed(cfg.Seed+uint64(i)),
		)
		t.shapers[player] = reward.ForPlayer(player, cfg.TigerRewards, cfg.GoatRewards)
	}
	for _, option := range options {
		option(t)
	}

	if cfg.Resume {
		for player, l := range t.learners {
			l.LoadOrEmpty(cfg.CheckpointPath(player))
		}
	}
	return t, nil
}

func (t *Trainer) Learner(player game.Player) *learner.Learner {
	return t.learners[player]
}

// Records returns the episode records of this run.
func (t *Trainer) Records() []metrics.EpisodeRecord {
	return t.records
}

// Evaluations returns every evaluation record of this run.
func (t *Trainer) Evaluations() []metrics.EvaluationRecord {
	return t.evaluations
}

// Run trains for the configured number of episodes. Cancelling ctx stops
// after the current episode; tables are checkpointed either way.
func (t *Trainer) Run(ctx context.Context) error {
	writer, err := metrics.NewWriter(t.cfg.OutputDir, "training")
	if err != nil {
		return err
	}
	episodes, err := metrics.NewEpisodeWriter(writer.Dir())
	if err != nil {
		return err
	}
	defer func() {
		if err := episodes.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close episode log")
		}
	}()

	err = writer.WriteAgentConfigs([]metrics.AgentConfig{
		{ID: 1, Player: game.Tiger.String(), Strategy: agent.Learned.String(), Checkpoint: t.cfg.CheckpointPath(game.Tiger), Seed: t.cfg.Seed},
		{ID: 2, Player: game.Goat.String(), Strategy: agent.Learned.String(), Checkpoint: t.cfg.CheckpointPath(game.Goat), Seed: t.cfg.Seed + 1},
	})
	if err != nil {
		return err
	}

	log.Info().Str("run", episodes.RunID()).Int("episodes", t.cfg.Episodes).Str("dir", writer.Dir()).Msg("starting training")
	start := time.Now()

	var stopErr error
	saved := false
	for episode := 1; episode <= t.cfg.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			log.Warn().Int("episode", episode).Msg("training interrupted")
			stopErr = err
			break
		}

		record, winner := t.playEpisode(episode)
		saved = false
		t.records = append(t.records, record)
		t.unflushed = append(t.unflushed, record)

		if t.cfg.EvalInterval > 0 && episode%t.cfg.EvalInterval == 0 {
			if err := t.evaluate(episode); err != nil {
				return err
			}
		}
		if t.cfg.CheckpointInterval > 0 && episode%t.cfg.CheckpointInterval == 0 {
			if err := t.checkpoint(writer, episodes); err != nil {
				return err
			}
			saved = true
			stats := t.window.stats()
			log.Info().Int("episode", episode).
				Float64("tiger_win_rate", stats.TigerWinRate).
				Float64("goat_win_rate", stats.GoatWinRate).
				Float64("draw_rate", stats.DrawRate).
				Float64("mean_moves", stats.MeanMoves).
				Msg("checkpoint")
		}
		t.report(episode, winner, record, time.Since(start))
	}

	if !saved {
		if err := t.checkpoint(writer, episodes); err != nil {
			return err
		}
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("episodes", len(t.records)).Int("rows", episodes.Rows()).Msg("completed training")
	return stopErr
}

// playEpisode runs one full self-play game and applies its transitions.
func (t *Trainer) playEpisode(episode int) (metrics.EpisodeRecord, game.Player) {
	tiger, goat := t.learners[game.Tiger], t.learners[game.Goat]
	sp := newSelfPlay(t.learners, t.shapers)

	e := engine.LocalEngine(
		agent.NewTrainingAgent(tiger),
		agent.NewTrainingAgent(goat),
		engine.WithMaxTurns(t.cfg.MaxTurns),
		engine.WithObserver(sp.observe),
	)
	winner, gameMetric, _ := e.Run()
	// Stalemates and the turn cap end the game without a terminal action
	sp.finish(e.FinalState(), winner)

	tiger.RecordEpisode(winner, gameMetric.Captures)
	goat.RecordEpisode(winner, gameMetric.Captures)
	t.window.add(winner, gameMetric.TotalMoves, gameMetric.Captures)

	tigerA, tigerB := tiger.Tables()
	goatA, goatB := goat.Tables()
	return metrics.EpisodeRecord{
		Episode:       int64(episode),
		Winner:        winner.String(),
		EndReason:     gameMetric.EndReason,
		Moves:         int32(gameMetric.TotalMoves),
		Captures:      int32(gameMetric.Captures),
		TigerReward:   sp.rewards[game.Tiger],
		GoatReward:    sp.rewards[game.Goat],
		TigerEpsilon:  tiger.Epsilon(),
		GoatEpsilon:   goat.Epsilon(),
		TigerStates:   int64(max(tigerA.States(), tigerB.States())),
		GoatStates:    int64(max(goatA.States(), goatB.States())),
		DurationMicro: gameMetric.Duration.Microseconds(),
	}, winner
}

// evaluate plays both learners greedily against the fixed strategies.
func (t *Trainer) evaluate(episode int) error {
	t.latest = nil
	for _, player := range []game.Player{game.Tiger, game.Goat} {
		for _, opponent := range []agent.Strategy{agent.Random, agent.Greedy} {
			record, err := experiments.EvaluateLearner(t.learners[player], opponent, t.cfg.EvalGames, t.evalWorkers, t.cfg.MaxTurns, t.cfg.Seed+uint64(episode))
			if err != nil {
				return fmt.Errorf("failed to evaluate %s: %w", player, err)
			}
			record.Episode = episode
			t.latest = append(t.latest, record)
			log.Info().Int("episode", episode).Str("player", record.Player).Str("opponent", record.Opponent).
				Float64("win_rate", record.WinRate()).Msg("evaluation")
		}
	}
	t.evaluations = append(t.evaluations, t.latest...)
	return nil
}

// checkpoint saves both learners and flushes the episode and evaluation logs.
func (t *Trainer) checkpoint(writer *metrics.Writer, episodes *metrics.EpisodeWriter) error {
	for _, player := range []game.Player{game.Tiger, game.Goat} {
		if err := t.learners[player].Save(t.cfg.CheckpointPath(player)); err != nil {
			return fmt.Errorf("failed to save %s checkpoint: %w", player, err)
		}
	}
	if err := episodes.Write(t.unflushed); err != nil {
		return err
	}
	t.unflushed = nil
	if err := writer.WriteEpisodeRecords(t.records); err != nil {
		return err
	}
	return writer.WriteEvaluationRecords(t.evaluations)
}

func (t *Trainer) report(episode int, winner game.Player, record metrics.EpisodeRecord, elapsed time.Duration) {
	if t.progress == nil {
		return
	}
	p := Progress{
		Episode:      episode,
		Episodes:     t.cfg.Episodes,
		Winner:       winner,
		Window:       t.window.stats(),
		TigerEpsilon: record.TigerEpsilon,
		GoatEpsilon:  record.GoatEpsilon,
		TigerStates:  int(record.TigerStates),
		GoatStates:   int(record.GoatStates),
		Evaluations:  t.latest,
		Elapsed:      elapsed,
	}
	select {
	case t.progress <- p:
	default:
	}
}
