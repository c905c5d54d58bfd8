package tilemap

import (
	"testing"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(i uint64) domain.EntityID {
	return domain.PackEntityID(domain.KindUnit, 0, i)
}

func pos(x, y int) domain.Position {
	return domain.Position{X: x, Y: y}
}

func TestNew_InvalidDimension(t *testing.T) {
	for _, tc := range []struct{ w, h int }{{0, 5}, {5, 0}, {-1, 3}, {0, 0}} {
		_, err := New(tc.w, tc.h)
		assert.ErrorIs(t, err, domain.ErrInvalidDimension, "%dx%d", tc.w, tc.h)
	}

	tm, err := New(3, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Dim{W: 3, H: 2}, tm.Dim())
}

func TestAdd_AppendsInOrder(t *testing.T) {
	tm, err := New(4, 4)
	require.NoError(t, err)

	require.NoError(t, tm.Add(id(1), pos(1, 1)))
	require.NoError(t, tm.Add(id(2), pos(1, 1)))
	require.NoError(t, tm.Add(id(1), pos(1, 1))) // no uniqueness check

	got, err := tm.OccupantsAt(pos(1, 1))
	require.NoError(t, err)
	assert.Equal(t, []domain.EntityID{id(1), id(2), id(1)}, got)
	assert.Equal(t, 3, tm.CountAt(pos(1, 1)))
	assert.Equal(t, 3, tm.Len())
}

func TestAdd_OutOfBounds(t *testing.T) {
	tm, _ := New(4, 4)

	for _, p := range []domain.Position{pos(-1, 0), pos(4, 0), pos(0, 4), pos(0, -1)} {
		assert.ErrorIs(t, tm.Add(id(1), p), domain.ErrOutOfBounds, "%v", p)
	}
	assert.Equal(t, 0, tm.Len())
}

func TestAdd_ExactlyOnceMore(t *testing.T) {
	tm, _ := New(5, 5)
	e := id(7)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			p := pos(x, y)
			before := countOf(t, tm, e, p)
			require.NoError(t, tm.Add(e, p))
			assert.Equal(t, before+1, countOf(t, tm, e, p))
		}
	}
}

func TestRemove(t *testing.T) {
	tm, _ := New(3, 3)
	p := pos(2, 2)
	require.NoError(t, tm.Add(id(1), p))
	require.NoError(t, tm.Add(id(2), p))
	require.NoError(t, tm.Add(id(3), p))

	tm.Remove(id(2), p)
	got, _ := tm.OccupantsAt(p)
	assert.Equal(t, []domain.EntityID{id(1), id(3)}, got, "order of the rest is kept")

	// second remove is a no-op
	tm.Remove(id(2), p)
	got, _ = tm.OccupantsAt(p)
	assert.Equal(t, []domain.EntityID{id(1), id(3)}, got)

	// out of bounds is tolerated
	tm.Remove(id(1), pos(9, 9))
	assert.Equal(t, 2, tm.Len())
}

func TestRemove_FirstOccurrenceOnly(t *testing.T) {
	tm, _ := New(2, 2)
	p := pos(0, 0)
	require.NoError(t, tm.Add(id(1), p))
	require.NoError(t, tm.Add(id(2), p))
	require.NoError(t, tm.Add(id(1), p))

	tm.Remove(id(1), p)
	got, _ := tm.OccupantsAt(p)
	assert.Equal(t, []domain.EntityID{id(2), id(1)}, got)

	tm.Remove(id(1), p)
	assert.Zero(t, countOf(t, tm, id(1), p))
}

func TestMove(t *testing.T) {
	tm, _ := New(5, 5)
	a, b := pos(0, 0), pos(3, 4)
	require.NoError(t, tm.Add(id(1), a))

	require.NoError(t, tm.Move(id(1), a, b))
	assert.False(t, tm.Contains(id(1), a))
	assert.True(t, tm.Contains(id(1), b))
	assert.Equal(t, 1, tm.Len())

	err := tm.Move(id(1), b, pos(5, 5))
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
	assert.True(t, tm.Contains(id(1), b), "failed move leaves entity in place")
}

func TestOccupantsAt(t *testing.T) {
	tm, _ := New(2, 2)

	got, err := tm.OccupantsAt(pos(1, 1))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = tm.OccupantsAt(pos(2, 0))
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	// returned slice is a copy
	require.NoError(t, tm.Add(id(1), pos(0, 0)))
	got, _ = tm.OccupantsAt(pos(0, 0))
	got[0] = id(99)
	again, _ := tm.OccupantsAt(pos(0, 0))
	assert.Equal(t, id(1), again[0])
}

func TestIsBlocked(t *testing.T) {
	tm, _ := New(3, 3)
	costs := map[domain.EntityID]int{
		id(1): domain.Impassable,
		id(2): domain.UnitPathCost,
		id(3): 0,
	}
	lookup := domain.BlockingFunc(func(e domain.EntityID) (int, bool) {
		c, ok := costs[e]
		return c, ok
	})

	require.NoError(t, tm.Add(id(4), pos(0, 0))) // no attribute
	require.NoError(t, tm.Add(id(2), pos(1, 0)))
	require.NoError(t, tm.Add(id(3), pos(2, 0)))
	require.NoError(t, tm.Add(id(4), pos(0, 1)))
	require.NoError(t, tm.Add(id(1), pos(0, 1)))

	assert.False(t, tm.IsBlocked(pos(0, 0), lookup))
	assert.False(t, tm.IsBlocked(pos(1, 0), lookup), "advisory cost does not block")
	assert.False(t, tm.IsBlocked(pos(2, 0), lookup))
	assert.True(t, tm.IsBlocked(pos(0, 1), lookup))
	assert.False(t, tm.IsBlocked(pos(2, 2), lookup), "empty tile")
	assert.False(t, tm.IsBlocked(pos(-1, 0), lookup))
	assert.False(t, tm.IsBlocked(pos(0, 1), nil))

	tm.Remove(id(1), pos(0, 1))
	assert.False(t, tm.IsBlocked(pos(0, 1), lookup), "removal is visible immediately")
}

func TestTopAndSelection(t *testing.T) {
	tm, _ := New(3, 3)
	p := pos(1, 2)
	require.NoError(t, tm.Add(id(1), p)) // terrain at the back
	require.NoError(t, tm.Add(id(2), p)) // unit in front

	top, ok := tm.Top(p)
	require.True(t, ok)
	assert.Equal(t, id(2), top)

	sel, ok := tm.Select(p)
	require.True(t, ok)
	assert.Equal(t, id(2), sel)

	require.NoError(t, tm.Move(id(2), p, pos(0, 0)))
	sel, ok = tm.Selected()
	assert.True(t, ok, "moved entity stays selected")
	assert.Equal(t, id(2), sel)

	tm.Remove(id(2), pos(0, 0))
	_, ok = tm.Selected()
	assert.False(t, ok, "removed entity is deselected")

	_, ok = tm.Select(pos(2, 2))
	assert.False(t, ok)
}

func TestEach_BackToFront(t *testing.T) {
	tm, _ := New(2, 2)
	require.NoError(t, tm.Add(id(3), pos(1, 1)))
	require.NoError(t, tm.Add(id(1), pos(0, 0)))
	require.NoError(t, tm.Add(id(2), pos(0, 0)))

	var seen []domain.EntityID
	tm.Each(func(_ domain.Position, e domain.EntityID) bool {
		seen = append(seen, e)
		return true
	})
	assert.Equal(t, []domain.EntityID{id(1), id(2), id(3)}, seen)

	n := 0
	tm.Each(func(domain.Position, domain.EntityID) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}

func countOf(t *testing.T, tm *Tilemap, e domain.EntityID, p domain.Position) int {
	t.Helper()
	got, err := tm.OccupantsAt(p)
	require.NoError(t, err)
	n := 0
	for _, o := range got {
		if o == e {
			n++
		}
	}
	return n
}
