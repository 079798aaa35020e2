package game

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned by Fire for a shot outside the grid.
// The caller's input translation is expected to never produce one.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

func errInvalidCoordinate(x, y, size int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrInvalidCoordinate, x, y, size, size)
}

// PlacementExhaustedError records a ship the generator had to leave out
// because no valid placement remained. It is advisory: generation goes on.
type PlacementExhaustedError struct {
	Index int // position in the layout
	Spec  ShipSpec
}

func (e *PlacementExhaustedError) Error() string {
	return fmt.Sprintf("no placement left for ship #%d (size %d, image %q)", e.Index, e.Spec.Size, e.Spec.Image)
}
