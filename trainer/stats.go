package trainer

import (
	"baghchal/game"

	"gonum.org/v1/gonum/stat"
)

// window keeps the most recent episode outcomes for moving averages.
type window struct {
	size     int
	tiger    []float64
	goat     []float64
	draw     []float64
	moves    []float64
	captures []float64
}

func newWindow(size int) *window {
	return &window{size: size}
}

func (w *window) add(winner game.Player, moves, captures int) {
	w.tiger = push(w.tiger, indicator(winner == game.Tiger), w.size)
	w.goat = push(w.goat, indicator(winner == game.Goat), w.size)
	w.draw = push(w.draw, indicator(winner == game.NoPlayer), w.size)
	w.moves = push(w.moves, float64(moves), w.size)
	w.captures = push(w.captures, float64(captures), w.size)
}

// WindowStats are averages over the recent episodes.
type WindowStats struct {
	Episodes     int
	TigerWinRate float64
	GoatWinRate  float64
	DrawRate     float64
	MeanMoves    float64
	MeanCaptures float64
}

func (w *window) stats() WindowStats {
	if len(w.tiger) == 0 {
		return WindowStats{}
	}
	return WindowStats{
		Episodes:     len(w.tiger),
		TigerWinRate: stat.Mean(w.tiger, nil),
		GoatWinRate:  stat.Mean(w.goat, nil),
		DrawRate:     stat.Mean(w.draw, nil),
		MeanMoves:    stat.Mean(w.moves, nil),
		MeanCaptures: stat.Mean(w.captures, nil),
	}
}

func push(values []float64, v float64, size int) []float64 {
	values = append(values, v)
	if len(values) > size {
		values = values[len(values)-size:]
	}
	return values
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
