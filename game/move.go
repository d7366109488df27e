package game

import (
	"fmt"
	"strconv"
	"strings"
)

type ActionKind int

const (
	PlaceAction ActionKind = iota
	MoveAction
)

func (k ActionKind) String() string {
	switch k {
	case PlaceAction:
		return "place"
	case MoveAction:
		return "move"
	default:
		panic(fmt.Sprintf("unknown action kind %d", int(k)))
	}
}

// Action is either a goat placement on To, or a move of the piece on From to To.
// A tiger move spanning two hops along a line is a capture.
type Action struct {
	Kind ActionKind
	From Position // Unused for placements
	To   Position
}

// Place returns a placement on (row, col).
func Place(row, col int) Action {
	return Action{Kind: PlaceAction, To: Pos(row, col)}
}

// Move returns a move from (fromRow, fromCol) to (toRow, toCol).
func Move(fromRow, fromCol, toRow, toCol int) Action {
	return Action{Kind: MoveAction, From: Pos(fromRow, fromCol), To: Pos(toRow, toCol)}
}

// Key returns the canonical textual form, e.g. "place,2,3" or "move,0,0,1,1".
// Learned value tables are keyed by it, so the format must stay stable.
func (a Action) Key() string {
	switch a.Kind {
	case PlaceAction:
		return fmt.Sprintf("place,%d,%d", a.To.Row, a.To.Col)
	case MoveAction:
		return fmt.Sprintf("move,%d,%d,%d,%d", a.From.Row, a.From.Col, a.To.Row, a.To.Col)
	default:
		panic(fmt.Sprintf("unknown action kind %d", int(a.Kind)))
	}
}

func (a Action) String() string {
	return a.Key()
}

// IsJump reports whether the move spans two cells along a line, i.e. is a capture candidate.
func (a Action) IsJump() bool {
	if a.Kind != MoveAction {
		return false
	}
	dr, dc := a.To.Row-a.From.Row, a.To.Col-a.From.Col
	return dr%2 == 0 && dc%2 == 0 && (dr != 0 || dc != 0) && abs(dr) <= 2 && abs(dc) <= 2
}

// Over returns the midpoint of a jump.
func (a Action) Over() Position {
	return Pos((a.From.Row+a.To.Row)/2, (a.From.Col+a.To.Col)/2)
}

// ParseAction parses the canonical key produced by Action.Key.
func ParseAction(key string) (Action, error) {
	parts := strings.Split(key, ",")
	nums := make([]int, 0, len(parts)-1)
	for _, part := range parts[1:] {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Action{}, fmt.Errorf("cannot parse action %q: %w", key, err)
		}
		nums = append(nums, n)
	}

	switch {
	case parts[0] == "place" && len(nums) == 2:
		return Place(nums[0], nums[1]), nil
	case parts[0] == "move" && len(nums) == 4:
		return Move(nums[0], nums[1], nums[2], nums[3]), nil
	default:
		return Action{}, fmt.Errorf("cannot parse action %q: unknown format", key)
	}
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.Key()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
