package game

import "github.com/pkg/errors"

var (
	// ErrInvalidCoordinate is returned for positions outside the 5x5 board.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidAction is returned for actions the rules do not allow in the current state.
	ErrInvalidAction = errors.New("invalid action")
	// ErrGameOver is returned for any action once a winner is decided.
	ErrGameOver = errors.Wrap(ErrInvalidAction, "game is over")
)

func invalidAction(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidAction, format, args...)
}
