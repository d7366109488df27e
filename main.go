package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"baghchal/agent"
	"baghchal/engine"
	"baghchal/experiments"
	"baghchal/game"
	"baghchal/learner"
	"baghchal/meta"
	"baghchal/trainer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: baghchal <command> [flags]

commands:
  train       self-play training of both learners
  play        play one game and print every position
  eval        evaluate checkpoints against random and greedy play
  throughput  measure games per second for increasing worker counts
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	case "eval":
		err = runEval(os.Args[2:])
	case "throughput":
		err = runThroughput(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

func setupLogging(level string, out io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly})
	return nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file, defaults are used when empty")
	episodes := fs.Int("episodes", 0, "Override the number of episodes")
	resume := fs.Bool("resume", false, "Continue from the saved checkpoints")
	seed := fs.Uint64("seed", 0, "Override the seed")
	tui := fs.Bool("tui", false, "Show a live progress view, logs go to train.log in the output dir")
	level := fs.String("log-level", "info", "Log level")
	fs.Parse(args)

	cfg := meta.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = meta.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *episodes > 0 {
		cfg.Episodes = *episodes
	}
	if *seed > 0 {
		cfg.Seed = *seed
	}
	cfg.Resume = cfg.Resume || *resume

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*tui {
		if err := setupLogging(*level, os.Stderr); err != nil {
			return err
		}
		t, err := trainer.New(cfg)
		if err != nil {
			return err
		}
		return t.Run(ctx)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	logFile, err := os.Create(filepath.Join(cfg.OutputDir, "train.log"))
	if err != nil {
		return err
	}
	defer logFile.Close()
	if err := setupLogging(*level, logFile); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	updates := make(chan trainer.Progress, 1)
	t, err := trainer.New(cfg, trainer.WithProgress(updates))
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- t.Run(ctx)
	}()

	final, err := tea.NewProgram(newProgressModel(updates, done, cancel)).Run()
	if err != nil {
		cancel()
		return fmt.Errorf("progress view failed: %w", err)
	}
	return final.(progressModel).err
}

// newAgent builds an agent from a strategy name. Learned agents load their
// tables from checkpoint and play greedily; a missing or corrupt checkpoint
// leaves them on empty tables.
func newAgent(strategy string, player game.Player, checkpoint string, seed uint64) (agent.Agent, error) {
	s, err := agent.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	if s != agent.Learned {
		return agent.New(s, player, agent.WithSeed(seed))
	}
	l := learner.NewLearner(player)
	l.LoadOrEmpty(checkpoint)
	return agent.New(s, player, agent.WithLearner(l, false))
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	tigerStrategy := fs.String("tiger", "greedy", "Tiger strategy: random, greedy or learned")
	goatStrategy := fs.String("goat", "random", "Goat strategy: random, greedy or learned")
	tigerCheckpoint := fs.String("tiger-checkpoint", "checkpoints/tiger.json", "Tiger checkpoint for the learned strategy")
	goatCheckpoint := fs.String("goat-checkpoint", "checkpoints/goat.json", "Goat checkpoint for the learned strategy")
	seed := fs.Uint64("seed", 1, "Seed of the random and greedy agents")
	maxTurns := fs.Int("max-turns", meta.MAX_TURNS, "Turns before the game is a draw")
	level := fs.String("log-level", "warn", "Log level")
	fs.Parse(args)

	if err := setupLogging(*level, os.Stderr); err != nil {
		return err
	}
	tiger, err := newAgent(*tigerStrategy, game.Tiger, *tigerCheckpoint, *seed)
	if err != nil {
		return err
	}
	goat, err := newAgent(*goatStrategy, game.Goat, *goatCheckpoint, *seed+1)
	if err != nil {
		return err
	}

	fmt.Println(game.NewGameState())
	e := engine.LocalEngine(tiger, goat,
		engine.WithMaxTurns(*maxTurns),
		engine.WithObserver(func(turn engine.Turn) {
			fmt.Printf("\n%d. %s %s\n%s\n", turn.Step, turn.Player, turn.Action.Key(), turn.Outcome.State)
		}),
	)
	winner, gameMetric, _ := e.Run()
	fmt.Printf("\nwinner: %s (%s) after %d moves, %d captures\n", winner, gameMetric.EndReason, gameMetric.TotalMoves, gameMetric.Captures)
	return nil
}

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	tigerCheckpoint := fs.String("tiger-checkpoint", "checkpoints/tiger.json", "Tiger checkpoint")
	goatCheckpoint := fs.String("goat-checkpoint", "checkpoints/goat.json", "Goat checkpoint")
	games := fs.Int("games", experiments.NumGames, "Games per matchup")
	workers := fs.Int("workers", 4, "Concurrent games")
	maxTurns := fs.Int("max-turns", meta.MAX_TURNS, "Turns before a game is a draw")
	seed := fs.Uint64("seed", 1, "Seed of the random and greedy agents")
	out := fs.String("out", "experiments", "Output directory")
	level := fs.String("log-level", "info", "Log level")
	fs.Parse(args)

	if err := setupLogging(*level, os.Stderr); err != nil {
		return err
	}
	tiger, goat := learner.NewLearner(game.Tiger), learner.NewLearner(game.Goat)
	tiger.LoadOrEmpty(*tigerCheckpoint)
	goat.LoadOrEmpty(*goatCheckpoint)

	records, err := experiments.RunEvaluationExperiment(*out, tiger, goat, [2]string{*tigerCheckpoint, *goatCheckpoint}, *games, *workers, *maxTurns, *seed)
	if err != nil {
		return err
	}

	// Wins per matchup, keyed by the contestant IDs
	type matchup struct{ tiger, goat int }
	wins := make(map[matchup][3]int)
	var order []matchup
	for _, r := range records {
		m := matchup{r.Tiger, r.Goat}
		w, ok := wins[m]
		if !ok {
			order = append(order, m)
		}
		switch r.Winner {
		case game.Tiger:
			w[0]++
		case game.Goat:
			w[1]++
		default:
			w[2]++
		}
		wins[m] = w
	}
	for _, m := range order {
		w := wins[m]
		fmt.Printf("tiger #%d vs goat #%d: tiger %d, goat %d, draws %d\n", m.tiger, m.goat, w[0], w[1], w[2])
	}
	return nil
}

func runThroughput(args []string) error {
	fs := flag.NewFlagSet("throughput", flag.ExitOnError)
	workerList := fs.String("workers", "1,2,4,8", "Comma separated worker counts")
	games := fs.Int("games", 200, "Games per worker count")
	maxTurns := fs.Int("max-turns", meta.MAX_TURNS, "Turns before a game is a draw")
	level := fs.String("log-level", "info", "Log level")
	fs.Parse(args)

	if err := setupLogging(*level, os.Stderr); err != nil {
		return err
	}
	var workers []int
	for _, s := range strings.Split(*workerList, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || w < 1 {
			return fmt.Errorf("invalid worker count %q", s)
		}
		workers = append(workers, w)
	}

	results, err := experiments.RunThroughputExperiment(workers, *games, *maxTurns)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("%3d workers: %8.1f games/s\n", r.Workers, r.GamesPerSecond)
	}
	return nil
}
