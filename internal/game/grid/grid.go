// Package grid implements the bounded tactical battle grid: integer block
// coordinates, Chebyshev block distance, and one-occupant-per-square placement.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidMove reports a placement or move onto an out-of-bounds or
// occupied square. Recoverable; the caller may pick another destination.
var ErrInvalidMove = errors.New("invalid move")

// Position is a square on the battle grid, in blocks.
type Position struct {
	X int
	Y int
}

// String returns "(x, y)".
func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Distance returns the Chebyshev block distance between a and b. Diagonal
// movement costs the same as orthogonal in this ruleset, so one diagonal
// step covers one block.
//
// Postcondition: Returns >= 0; Distance(a, b) == Distance(b, a).
func Distance(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Map is a bounded battle grid tracking which square each occupant holds.
// It is not safe for concurrent use; the owning combat session serialises
// access.
//
// Invariant: at most one occupant per square; every occupant is in bounds.
type Map struct {
	width  int
	height int
	byPos  map[Position]string
	byID   map[string]Position
}

// NewMap creates an empty width x height grid.
//
// Precondition: width > 0 and height > 0.
func NewMap(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: dimensions must be positive, got %dx%d", width, height)
	}
	return &Map{
		width:  width,
		height: height,
		byPos:  make(map[Position]string),
		byID:   make(map[string]Position),
	}, nil
}

// Width returns the grid width in blocks.
func (m *Map) Width() int { return m.width }

// Height returns the grid height in blocks.
func (m *Map) Height() int { return m.height }

// InBounds reports whether p lies on the grid.
func (m *Map) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// OccupantAt returns the occupant ID at p, or ("", false) if the square is empty.
func (m *Map) OccupantAt(p Position) (string, bool) {
	id, ok := m.byPos[p]
	return id, ok
}

// PositionOf returns the square held by id, or (Position{}, false) if id is
// not on the grid.
func (m *Map) PositionOf(id string) (Position, bool) {
	p, ok := m.byID[id]
	return p, ok
}

// Place puts id on square p.
//
// Precondition: id must be non-empty and not already placed.
// Postcondition: on success PositionOf(id) == p; on error the grid is unchanged.
// Returns ErrInvalidMove (wrapped) if p is out of bounds or occupied.
func (m *Map) Place(id string, p Position) error {
	if id == "" {
		return fmt.Errorf("grid: occupant id must not be empty")
	}
	if _, ok := m.byID[id]; ok {
		return fmt.Errorf("grid: occupant %q already placed", id)
	}
	if !m.InBounds(p) {
		return fmt.Errorf("grid: %s is out of bounds: %w", p, ErrInvalidMove)
	}
	if other, ok := m.byPos[p]; ok {
		return fmt.Errorf("grid: %s is occupied by %q: %w", p, other, ErrInvalidMove)
	}
	m.byPos[p] = id
	m.byID[id] = p
	return nil
}

// MoveTo relocates id to square p.
//
// Precondition: id must be placed on the grid.
// Postcondition: on success PositionOf(id) == p and the old square is empty;
// on error the grid is unchanged.
// Returns ErrInvalidMove (wrapped) if p is out of bounds or held by another occupant.
func (m *Map) MoveTo(id string, p Position) error {
	from, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("grid: occupant %q is not on the grid", id)
	}
	if !m.InBounds(p) {
		return fmt.Errorf("grid: %s is out of bounds: %w", p, ErrInvalidMove)
	}
	if other, occupied := m.byPos[p]; occupied && other != id {
		return fmt.Errorf("grid: %s is occupied by %q: %w", p, other, ErrInvalidMove)
	}
	delete(m.byPos, from)
	m.byPos[p] = id
	m.byID[id] = p
	return nil
}

// Remove takes id off the grid. Removing an absent id is a no-op.
//
// Postcondition: PositionOf(id) reports false.
func (m *Map) Remove(id string) {
	p, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byPos, p)
	delete(m.byID, id)
}
