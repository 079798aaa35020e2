package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// canonical is the standard five-ship layout.
var canonical = []ShipSpec{
	{Size: 5, Image: "aircraft"},
	{Size: 4, Image: "battleship"},
	{Size: 3, Image: "cruiser"},
	{Size: 3, Image: "submarine"},
	{Size: 2, Image: "carrier"},
}

// funcSource adapts a closure to random.Source.
type funcSource func(n int) int

func (f funcSource) IntN(n int) int { return f(n) }

// keepOrderThenFirst leaves a shuffle of n elements untouched and then picks index 0.
func keepOrderThenFirst(n int) funcSource {
	calls := 0
	return func(k int) int {
		calls++
		if calls < n {
			return k - 1
		}
		return 0
	}
}

// buildField places ships at the given placements, in order.
func buildField(size int, ships []ShipSpec, at []Placement) *Field {
	f := &Field{Grid: NewGrid(size), Ships: []Ship{}}
	for i, spec := range ships {
		sh := Ship{Index: i, Size: spec.Size, Life: spec.Size, Image: spec.Image}
		f.Grid = place(f.Grid, sh, at[i])
		f.Ships = append(f.Ships, sh)
	}
	return f
}

// shipCells groups ship cells (hit or not) by ship index.
func shipCells(f *Field) map[int][]Point {
	out := map[int][]Point{}
	for _, col := range f.Grid {
		for _, c := range col {
			if c.ShipIndex != NoShip {
				out[c.ShipIndex] = append(out[c.ShipIndex], Point{c.X, c.Y})
			}
		}
	}
	return out
}

// requireCellInvariant checks ShipIndex != NoShip ⇔ state ∈ {ship, hit}.
func requireCellInvariant(t *testing.T, f *Field) {
	t.Helper()
	for _, col := range f.Grid {
		for _, c := range col {
			switch c.State {
			case CellShip, CellHit:
				require.NotEqual(t, NoShip, c.ShipIndex, "cell %+v", c)
				require.Less(t, c.ShipIndex, len(f.Ships))
			case CellEmpty, CellMiss:
				require.Equal(t, NoShip, c.ShipIndex, "cell %+v", c)
			default:
				require.Failf(t, "unknown state", "cell %+v", c)
			}
		}
	}
}
