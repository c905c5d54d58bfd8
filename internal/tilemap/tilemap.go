// Package tilemap is the occupancy grid of a battle map: which entities stand
// on which tile, in back-to-front order.
//
// A Tilemap is not safe for concurrent use. Searches only read it, so several
// searches may share one tilemap as long as no Add/Remove/Move runs meanwhile.
package tilemap

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

// Tilemap хранит для каждой клетки список сущностей.
// Ключ клетки: Y * Width + X. Порядок в клетке - порядок отрисовки (сзади вперед).
type Tilemap struct {
	dim   domain.Dim
	cells [][]domain.EntityID
	count int

	selected domain.EntityID
}

// New allocates an empty tilemap.
func New(width, height int) (*Tilemap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tilemap %dx%d: %w", width, height, domain.ErrInvalidDimension)
	}
	dim := domain.Dim{W: width, H: height}
	return &Tilemap{
		dim:   dim,
		cells: make([][]domain.EntityID, dim.Cells()),
	}, nil
}

// Dim returns the fixed extent.
func (t *Tilemap) Dim() domain.Dim {
	return t.dim
}

func (t *Tilemap) Width() int  { return t.dim.W }
func (t *Tilemap) Height() int { return t.dim.H }

// InBounds reports whether pos is a tile of this map.
func (t *Tilemap) InBounds(pos domain.Position) bool {
	return t.dim.Contains(pos)
}

// Index returns the linear cell index of pos.
func (t *Tilemap) Index(pos domain.Position) (int, error) {
	if !t.dim.Contains(pos) {
		return 0, t.outOfBounds(pos)
	}
	return t.dim.Index(pos), nil
}

// Add appends id to the occupants of pos. Adding the same id twice yields
// two entries.
func (t *Tilemap) Add(id domain.EntityID, pos domain.Position) error {
	if !t.dim.Contains(pos) {
		return t.outOfBounds(pos)
	}
	idx := t.dim.Index(pos)
	t.cells[idx] = append(t.cells[idx], id)
	t.count++
	return nil
}

// Remove deletes the first occurrence of id at pos and keeps the order of the
// rest. Absent ids and out-of-bounds positions are ignored: destroy and UI
// removal may race each other.
func (t *Tilemap) Remove(id domain.EntityID, pos domain.Position) {
	if !t.dim.Contains(pos) {
		return
	}
	idx := t.dim.Index(pos)
	cell := t.cells[idx]

	for i, other := range cell {
		if other != id {
			continue
		}
		// Порядок важен (отрисовка), поэтому без swap-with-last
		copy(cell[i:], cell[i+1:])
		cell[len(cell)-1] = domain.NilEntityID
		t.cells[idx] = cell[:len(cell)-1]
		t.count--
		if t.selected == id {
			t.selected = domain.NilEntityID
		}
		return
	}
}

// Move relocates id. The destination is validated first so a failed move
// leaves the tilemap untouched.
func (t *Tilemap) Move(id domain.EntityID, from, to domain.Position) error {
	if !t.dim.Contains(to) {
		return fmt.Errorf("move %s: %w", id, t.outOfBounds(to))
	}
	sel := t.selected
	t.Remove(id, from)
	if err := t.Add(id, to); err != nil {
		return err
	}
	// a moved entity stays selected
	if sel == id {
		t.selected = id
	}
	return nil
}

// OccupantsAt returns a copy of the occupants of pos in back-to-front order.
// An empty in-bounds cell yields an empty, non-nil slice.
func (t *Tilemap) OccupantsAt(pos domain.Position) ([]domain.EntityID, error) {
	if !t.dim.Contains(pos) {
		return nil, t.outOfBounds(pos)
	}
	cell := t.cells[t.dim.Index(pos)]
	out := make([]domain.EntityID, len(cell))
	copy(out, cell)
	return out, nil
}

// CountAt returns the number of occupants of pos, 0 outside the map.
func (t *Tilemap) CountAt(pos domain.Position) int {
	if !t.dim.Contains(pos) {
		return 0
	}
	return len(t.cells[t.dim.Index(pos)])
}

// Contains reports whether id is registered at pos.
func (t *Tilemap) Contains(id domain.EntityID, pos domain.Position) bool {
	if !t.dim.Contains(pos) {
		return false
	}
	for _, other := range t.cells[t.dim.Index(pos)] {
		if other == id {
			return true
		}
	}
	return false
}

// Top returns the front-most occupant of pos, the one drawn last.
func (t *Tilemap) Top(pos domain.Position) (domain.EntityID, bool) {
	if !t.dim.Contains(pos) {
		return domain.NilEntityID, false
	}
	cell := t.cells[t.dim.Index(pos)]
	if len(cell) == 0 {
		return domain.NilEntityID, false
	}
	return cell[len(cell)-1], true
}

// IsBlocked is true iff an occupant of pos carries a collidable attribute
// with the impassable cost. Tiles outside the map are not blocked; callers
// check bounds separately.
func (t *Tilemap) IsBlocked(pos domain.Position, lookup domain.BlockingLookup) bool {
	if lookup == nil || !t.dim.Contains(pos) {
		return false
	}
	for _, id := range t.cells[t.dim.Index(pos)] {
		if domain.IsImpassable(lookup, id) {
			return true
		}
	}
	return false
}

// Select marks the top occupant of pos as selected (hit-testing for the
// editor). Returns false and clears the selection on an empty tile.
func (t *Tilemap) Select(pos domain.Position) (domain.EntityID, bool) {
	id, ok := t.Top(pos)
	t.selected = id
	return id, ok
}

// Selected returns the current selection.
func (t *Tilemap) Selected() (domain.EntityID, bool) {
	return t.selected, !t.selected.IsNil()
}

func (t *Tilemap) ClearSelection() {
	t.selected = domain.NilEntityID
}

// Len is the total number of occupant entries on the map.
func (t *Tilemap) Len() int {
	return t.count
}

// Each visits every occupant row by row, back to front within a tile.
// Returning false stops the walk.
func (t *Tilemap) Each(fn func(pos domain.Position, id domain.EntityID) bool) {
	for idx, cell := range t.cells {
		if len(cell) == 0 {
			continue
		}
		pos := t.dim.At(idx)
		for _, id := range cell {
			if !fn(pos, id) {
				return
			}
		}
	}
}

func (t *Tilemap) outOfBounds(pos domain.Position) error {
	return fmt.Errorf("tile %s outside %dx%d: %w", pos, t.dim.W, t.dim.H, domain.ErrOutOfBounds)
}
