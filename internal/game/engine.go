// internal/game/engine.go
//
// Turn engine for a single-player battleship game.
// Responsibilities:
//   - Create and reset games from a Generator.
//   - Resolve a shot at (x, y): miss, hit, or no-op on an already fired cell.
//   - Detect the end of the game once every placed ship is sunk.
//
// State transitions:
//   - player_turn → player_turn after a shot that leaves a ship afloat.
//   - player_turn → game_over once every ship has Life == 0. A field with no
//     ships at all counts as fully sunk, so its first shot ends the game.
//   - game_over → player_turn on any action; coordinates are ignored and a
//     fresh field is generated.
//
// The engine never mutates a GameState it was given.

package game

// Engine runs the turn state machine over fields from its generator.
type Engine struct {
	gen *Generator
}

// NewEngine returns an Engine that builds fields with gen.
func NewEngine(gen *Generator) *Engine {
	return &Engine{gen: gen}
}

// New starts a game on a freshly generated field.
func (e *Engine) New() GameState {
	return GameState{Mode: ModePlayerTurn, Player: e.gen.Generate()}
}

// Reset is New under the name used for the restart control.
func (e *Engine) Reset() GameState { return e.New() }

// Fire applies one player action to s and returns the next state.
//
// In game_over the coordinates are ignored and a reset state is returned.
// In player_turn an out-of-grid coordinate yields ErrInvalidCoordinate; a
// cell that was already fired at returns s itself (see GameState.Same).
func (e *Engine) Fire(s GameState, x, y int) (GameState, error) {
	if s.Mode == ModeGameOver {
		return e.Reset(), nil
	}
	return Shoot(s, x, y)
}

// Shoot resolves a shot in player_turn without the reset branch.
func Shoot(s GameState, x, y int) (GameState, error) {
	f := s.Player
	cell, ok := f.Grid.Cell(x, y)
	if !ok {
		return s, errInvalidCoordinate(x, y, f.Size())
	}
	if cell.Fired() {
		return s, nil
	}

	ships := f.Ships
	next := CellMiss
	if cell.State == CellShip {
		next = CellHit
		ships = withHit(f.Ships, cell.ShipIndex)
	}
	grid := f.Grid.WithCell(x, y, func(c *Cell) { c.State = next })

	mode := ModePlayerTurn
	if allSunk(ships) {
		mode = ModeGameOver
	}
	return GameState{Mode: mode, Player: &Field{Grid: grid, Ships: ships}}, nil
}

// withHit returns a copy of ships with ship idx one life down.
func withHit(ships []Ship, idx int) []Ship {
	if idx < 0 || idx >= len(ships) {
		return ships
	}
	out := make([]Ship, len(ships))
	copy(out, ships)
	out[idx].Life = max(out[idx].Life-1, 0)
	return out
}

// allSunk is true for an empty fleet.
func allSunk(ships []Ship) bool {
	for _, sh := range ships {
		if !sh.Sunk() {
			return false
		}
	}
	return true
}

// Score is the number of confirmed hits: the sum of size-life over all ships.
func Score(s GameState) int {
	total := 0
	for _, sh := range s.Player.Ships {
		total += sh.Size - sh.Life
	}
	return total
}

// Scores pairs the player's score with the opponent slot, which is always 0.
func Scores(s GameState) [2]int {
	return [2]int{Score(s), 0}
}
