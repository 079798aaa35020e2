// internal/game/generate.go
//
// Random field generation.
// Ships are placed greedily in layout order: each one picks uniformly among
// the placements that remain valid after the previous ships were committed.
// Earlier ships are never moved, so a crowded layout may end up with fewer
// ships than requested; each skipped ship is logged as a warning.

package game

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/random"
)

// Generator builds fresh fields for a fixed size and ship layout.
type Generator struct {
	Size  int
	Ships []ShipSpec
	Rand  random.Source  // nil means random.Default()
	Log   zerolog.Logger // receives placement-exhausted warnings
}

// NewGenerator returns a Generator on the global random source and logger.
func NewGenerator(size int, ships []ShipSpec) *Generator {
	return &Generator{Size: size, Ships: ships, Rand: random.Default(), Log: log.Logger}
}

// GenerateField places ships onto a new size×size grid using the global
// random source.
func GenerateField(size int, ships []ShipSpec) *Field {
	return NewGenerator(size, ships).Generate()
}

// Generate returns a new field. It always succeeds; ships with no room left
// are omitted.
func (g *Generator) Generate() *Field {
	src := g.Rand
	if src == nil {
		src = random.Default()
	}

	f := &Field{Grid: NewGrid(g.Size), Ships: []Ship{}}
	for i, spec := range g.Ships {
		places := FindPlacements(f.Grid, spec.Size)
		if len(places) == 0 {
			g.Log.Warn().
				Err(&PlacementExhaustedError{Index: i, Spec: spec}).
				Int("size", spec.Size).
				Str("image", spec.Image).
				Msg("ship skipped")
			continue
		}
		pick := random.Shuffle(src, places)[random.Int(src, len(places), 0)]
		ship := Ship{Index: len(f.Ships), Size: spec.Size, Life: spec.Size, Image: spec.Image}
		f.Grid = place(f.Grid, ship, pick)
		f.Ships = append(f.Ships, ship)
	}
	return f
}

// place marks every cell of the run as belonging to ship. The grid is still
// private to Generate, so it is written in place.
func place(g Grid, ship Ship, p Placement) Grid {
	for _, pt := range p.Cells(ship.Size) {
		g[pt.X][pt.Y].State = CellShip
		g[pt.X][pt.Y].ShipIndex = ship.Index
	}
	return g
}
