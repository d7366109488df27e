// meta/meta.go
package meta

// MAX_TURNS caps a match; a game still running at the cap is a draw.
const MAX_TURNS = 300

// EPISODES defines the number of self-play training games.
const EPISODES = 10000

// CHECKPOINT_INTERVAL defines how many episodes pass between checkpoints.
const CHECKPOINT_INTERVAL = 500

// EVAL_INTERVAL defines how many episodes pass between evaluations.
const EVAL_INTERVAL = 1000

// EVAL_GAMES defines the number of games per evaluation matchup.
const EVAL_GAMES = 20

// STATS_WINDOW defines the number of recent episodes in moving averages.
const STATS_WINDOW = 100
