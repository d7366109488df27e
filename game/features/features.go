// Package features compresses a game state into a short feature vector and a
// stable lookup key for tabular learning.
//
// The key is lossy: distinct states with equal rounded features share a key.
package features

import (
	"encoding/binary"
	"fmt"
	"math"

	"baghchal/game"

	"github.com/zeebo/xxh3"
)

// Feature indices
const (
	PhaseFlag = iota
	PlacementProgress
	CaptureProgress
	GoatsOnBoard
	EmptyCells
	PerspectiveFlag
	TigerOnCenter
	GoatOnCenter
	TigersOnCorners
	GoatsOnCorners
	TigerMobility
	GoatMobility
	OwnAdjacency
	OwnLines
	VulnerableGoats
	TigersWithJump
	Size
)

// Normalizers for count features
const (
	maxTigerMobility = 8 * game.NumTigers
	maxGoatMobility  = 4 * game.TotalGoats
	maxAdjacentPairs = 2 * game.TotalGoats
	maxLines         = game.TotalGoats / 3
)

// Quantization step applied before hashing
const precision = 100

// Vector is a fixed-length encoding of a state from one side's perspective.
type Vector [Size]float64

// Encode builds the feature vector of the state as seen by the perspective side.
func Encode(gs *game.GameState, perspective game.Player) Vector {
	var v Vector
	b := &gs.Board

	if gs.Phase == game.Movement {
		v[PhaseFlag] = 1
	}
	v[PlacementProgress] = float64(gs.GoatsPlaced) / game.TotalGoats
	v[CaptureProgress] = float64(gs.GoatsCaptured) / game.CapturesToWin
	v[GoatsOnBoard] = float64(gs.GoatsOnBoard()) / game.TotalGoats
	v[EmptyCells] = float64(b.Count(game.Empty)) / game.NumCells
	if perspective == game.Tiger {
		v[PerspectiveFlag] = 1
	}

	// Center and corner occupancy
	switch b.CenterPiece() {
	case game.TigerPiece:
		v[TigerOnCenter] = 1
	case game.GoatPiece:
		v[GoatOnCenter] = 1
	}
	v[TigersOnCorners] = float64(b.CornerCount(game.TigerPiece)) / 4
	v[GoatsOnCorners] = float64(b.CornerCount(game.GoatPiece)) / 4

	v[TigerMobility] = clamp(float64(b.Mobility(game.Tiger)) / maxTigerMobility)
	v[GoatMobility] = clamp(float64(b.Mobility(game.Goat)) / maxGoatMobility)

	// Formation of the perspective side's own pieces
	own := perspective.Piece()
	v[OwnAdjacency] = clamp(float64(b.AdjacentPairs(own)) / maxAdjacentPairs)
	v[OwnLines] = clamp(float64(b.LineRuns(own)) / maxLines)

	v[VulnerableGoats] = float64(b.VulnerableGoats()) / game.TotalGoats
	v[TigersWithJump] = float64(b.TigersWithJump()) / game.NumTigers

	return v
}

// Key digests the quantized vector into a 16 hex character key.
func Key(v Vector) string {
	var buf [Size * 2]byte
	for i, x := range v {
		q := int16(math.Round(x * precision))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(q))
	}
	return fmt.Sprintf("%016x", xxh3.Hash(buf[:]))
}

// StateKey is shorthand for Key(Encode(gs, perspective)).
func StateKey(gs *game.GameState, perspective game.Player) string {
	return Key(Encode(gs, perspective))
}

func clamp(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
