// internal/layout/layout.go
//
// Ship layout management for the field generator.
//
// Responsibilities:
//   - Load the ship layout from a configured file, or fall back to the
//     embedded default (assets/ships.txt).
//   - Hand out copies of the layout so callers cannot reorder the shared one.
//
// File format: one ship per line, "<size> <image>", placed in file order.
// Blank lines and lines starting with '#' are ignored. The image is an
// opaque identifier for the rendering layer and may be omitted.
//
// Initialization is run once (sync.Once).

package layout

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/robalobadob/battleship/assets"
	"github.com/robalobadob/battleship/internal/game"
)

var (
	initOnce   sync.Once
	ships      []game.ShipSpec
	initialErr error
)

// Init loads the layout exactly once. An empty path selects the embedded
// default. Returns an error if the layout ends up empty or malformed.
func Init(path string) error {
	initOnce.Do(func() {
		ships, initialErr = Load(path)
	})
	return initialErr
}

// Load reads a layout from path, or the embedded default when path is "".
func Load(path string) ([]game.ShipSpec, error) {
	var lines []string
	var err error
	if path == "" {
		lines, err = assets.ShipsList()
	} else {
		lines, err = readLayoutFile(path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}

// Parse converts "<size> <image>" lines into ship specs.
func Parse(lines []string) ([]game.ShipSpec, error) {
	var out []game.ShipSpec
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		size, err := strconv.Atoi(fields[0])
		if err != nil || size < 1 {
			return nil, fmt.Errorf("layout: line %d: invalid ship size %q", i+1, fields[0])
		}
		spec := game.ShipSpec{Size: size}
		if len(fields) > 1 {
			spec.Image = fields[1]
		}
		out = append(out, spec)
	}
	if len(out) == 0 {
		return nil, errors.New("layout: no ships defined")
	}
	return out, nil
}

// readLayoutFile returns the raw lines of a layout file.
func readLayoutFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// Ships returns a copy of the loaded layout, or the embedded default if Init
// has not succeeded.
func Ships() []game.ShipSpec {
	if len(ships) == 0 {
		def, err := Load("")
		if err != nil {
			return nil
		}
		return def
	}
	out := make([]game.ShipSpec, len(ships))
	copy(out, ships)
	return out
}

// Stats returns the number of ships and their total cell count.
func Stats() (count int, cells int) {
	for _, s := range Ships() {
		count++
		cells += s.Size
	}
	return count, cells
}
