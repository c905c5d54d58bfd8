package battle

import (
	"testing"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBattle(t *testing.T, w, h int) *Battle {
	t.Helper()
	b, err := New(1, domain.Dim{W: w, H: h}, 42)
	require.NoError(t, err)
	return b
}

func pos(x, y int) domain.Position { return domain.Position{X: x, Y: y} }

func TestNew(t *testing.T) {
	b := newBattle(t, 4, 3)

	assert.Equal(t, 12, b.Registry.Len())
	assert.Equal(t, 12, b.Tilemap.Len())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			ids, err := b.Tilemap.OccupantsAt(pos(x, y))
			require.NoError(t, err)
			require.Len(t, ids, 1)
			assert.Equal(t, domain.KindTerrain, ids[0].Kind())
			assert.False(t, b.Tilemap.IsBlocked(pos(x, y), b.Registry))
		}
	}

	_, err := New(1, domain.Dim{W: 0, H: 3}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidDimension)
}

func TestDistribute(t *testing.T) {
	a := newBattle(t, 10, 10)
	b := newBattle(t, 10, 10)

	na := a.Distribute(30, nil, domain.SceneryPathCost)
	nb := b.Distribute(30, nil, domain.SceneryPathCost)
	assert.Equal(t, na, nb, "same seed, same scatter")
	assert.Greater(t, na, 0)
	assert.Equal(t, a.ToLayout().Records, b.ToLayout().Records)

	// advisory cost never blocks
	a.Tilemap.Each(func(p domain.Position, _ domain.EntityID) bool {
		assert.False(t, a.Tilemap.IsBlocked(p, a.Registry))
		return true
	})

	full := newBattle(t, 3, 3)
	assert.Equal(t, 9, full.Distribute(100, []string{"rocks"}, domain.Impassable))
	assert.True(t, full.Tilemap.IsBlocked(pos(1, 1), full.Registry))

	none := newBattle(t, 3, 3)
	assert.Zero(t, none.Distribute(0, nil, 0))
}

func TestCreateObstacle(t *testing.T) {
	b := newBattle(t, 5, 5)

	e, err := b.CreateObstacle(pos(2, 2), domain.Impassable, "")
	require.NoError(t, err)
	assert.Equal(t, domain.KindObstacle, e.ID.Kind())
	assert.Equal(t, "cactus", e.Render.Sprite)
	assert.True(t, b.Tilemap.IsBlocked(pos(2, 2), b.Registry))

	before := b.Registry.Len()
	_, err = b.CreateObstacle(pos(5, 0), domain.Impassable, "")
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
	assert.Equal(t, before, b.Registry.Len())
}

func TestCreateUnit(t *testing.T) {
	b := newBattle(t, 6, 4)

	u, err := b.CreateUnit(pos(1, 1), domain.TeamEnemy, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitPathCost, u.Collidable.Cost)
	assert.Equal(t, domain.UnitMaxHP, u.Damageable.HP)
	assert.Equal(t, domain.UnitDamage, u.UnitInfo.Damage)
	assert.Equal(t, pos(5, 3), u.Wander.Destination)
	assert.Equal(t, TeamColours[domain.TeamEnemy], u.Render.Color)
	assert.False(t, b.Tilemap.IsBlocked(pos(1, 1), b.Registry))

	dest := pos(0, 3)
	p, err := b.CreateUnit(pos(2, 2), domain.TeamPlayer, &dest)
	require.NoError(t, err)
	assert.Equal(t, dest, p.Wander.Destination)

	bad := pos(9, 9)
	_, err = b.CreateUnit(pos(2, 2), domain.TeamPlayer, &bad)
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	assert.Len(t, b.Units(), 2)
}

func TestDestroyUnit(t *testing.T) {
	b := newBattle(t, 4, 4)
	u, err := b.CreateUnit(pos(1, 1), domain.TeamPlayer, nil)
	require.NoError(t, err)

	_, err = b.DestroyUnit(u.ID)
	require.NoError(t, err)
	assert.False(t, b.Tilemap.Contains(u.ID, pos(1, 1)))
	assert.Zero(t, u.Damageable.HP)
	assert.NotNil(t, b.Registry.Get(u.ID), "casualties stay in the registry")
	assert.Empty(t, b.Units())

	_, err = b.DestroyUnit(u.ID)
	assert.ErrorIs(t, err, ErrDead)
	assert.ErrorIs(t, b.MoveEntity(u.ID, pos(2, 2)), ErrDead)

	o, _ := b.CreateObstacle(pos(0, 0), domain.Impassable, "")
	_, err = b.DestroyUnit(o.ID)
	assert.ErrorIs(t, err, ErrNotUnit)

	_, err = b.DestroyUnit(domain.PackEntityID(domain.KindUnit, 1, 999))
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestMoveEntity(t *testing.T) {
	b := newBattle(t, 4, 4)
	u, _ := b.CreateUnit(pos(0, 0), domain.TeamPlayer, nil)

	require.NoError(t, b.MoveEntity(u.ID, pos(3, 3)))
	assert.Equal(t, pos(3, 3), u.Pos)
	assert.True(t, b.Tilemap.Contains(u.ID, pos(3, 3)))
	assert.False(t, b.Tilemap.Contains(u.ID, pos(0, 0)))

	err := b.MoveEntity(u.ID, pos(4, 0))
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
	assert.Equal(t, pos(3, 3), u.Pos)
	assert.True(t, b.Tilemap.Contains(u.ID, pos(3, 3)))

	ground, _ := b.Tilemap.OccupantsAt(pos(1, 1))
	assert.ErrorIs(t, b.MoveEntity(ground[0], pos(2, 2)), ErrTerrain)
}

func TestRemove(t *testing.T) {
	b := newBattle(t, 3, 3)
	o, _ := b.CreateObstacle(pos(1, 1), domain.Impassable, "")

	_, err := b.Remove(o.ID)
	require.NoError(t, err)
	assert.False(t, b.Tilemap.IsBlocked(pos(1, 1), b.Registry))
	assert.Nil(t, b.Registry.Get(o.ID))

	ground, _ := b.Tilemap.OccupantsAt(pos(0, 0))
	_, err = b.Remove(ground[0])
	assert.ErrorIs(t, err, ErrTerrain)
}

func TestSetDestination(t *testing.T) {
	b := newBattle(t, 4, 4)
	u, _ := b.CreateUnit(pos(0, 0), domain.TeamPlayer, nil)
	u.Wander.Route = []domain.Position{pos(1, 1)}

	_, err := b.SetDestination(u.ID, pos(0, 3))
	require.NoError(t, err)
	assert.Equal(t, pos(0, 3), u.Wander.Destination)
	assert.Nil(t, u.Wander.Route)

	_, err = b.SetDestination(u.ID, pos(0, 4))
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
}

func TestLayoutRoundTrip(t *testing.T) {
	b := newBattle(t, 8, 6)
	b.Distribute(20, nil, 0)
	wall, _ := b.CreateObstacle(pos(3, 3), domain.Impassable, "")
	dest := pos(0, 5)
	u, _ := b.CreateUnit(pos(1, 1), domain.TeamEnemy, &dest)
	dead, _ := b.CreateUnit(pos(2, 2), domain.TeamPlayer, nil)
	_, _ = b.DestroyUnit(dead.ID)

	snap := b.ToLayout()
	restored, err := FromLayout(b.ID, snap)
	require.NoError(t, err)

	again := restored.ToLayout()
	assert.Equal(t, snap.Records, again.Records)
	assert.Equal(t, snap.Dim, again.Dim)

	assert.True(t, restored.Tilemap.IsBlocked(wall.Pos, restored.Registry))
	ru := restored.Registry.Get(u.ID)
	require.NotNil(t, ru)
	assert.Equal(t, dest, ru.Wander.Destination)
	assert.Nil(t, restored.Registry.Get(dead.ID))

	next, err := restored.CreateObstacle(pos(0, 0), 5, "")
	require.NoError(t, err)
	assert.Greater(t, next.ID.Index(), ru.ID.Index(), "fresh ids never reuse restored ones")
}

func TestFromLayout_Errors(t *testing.T) {
	snap := domain.LayoutSnapshot{
		Dim:     domain.Dim{W: 2, H: 2},
		Records: []domain.LayoutRecord{{Kind: domain.KindObstacle, Pos: pos(5, 5)}},
	}
	_, err := FromLayout(1, snap)
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	snap.Records = []domain.LayoutRecord{{Kind: domain.KindTerrain, Pos: pos(0, 0)}}
	_, err = FromLayout(1, snap)
	assert.Error(t, err)
}

func TestViewAndInspect(t *testing.T) {
	b := newBattle(t, 3, 3)
	o, _ := b.CreateObstacle(pos(1, 1), domain.Impassable, "")
	u, _ := b.CreateUnit(pos(1, 1), domain.TeamPlayer, nil)

	v := b.View(7)
	assert.Equal(t, 7, v.Tick)
	assert.Equal(t, 3, v.Grid.Width)
	require.Len(t, v.Entities, 2)
	assert.Equal(t, o.ID.Key(), v.Entities[0].ID)
	assert.Equal(t, "UNIT", v.Entities[1].Kind)
	require.NotNil(t, v.Entities[1].Destination)

	cell, err := b.Inspect(pos(1, 1))
	require.NoError(t, err)
	assert.Len(t, cell.Occupants, 3)
	assert.True(t, cell.Blocked)
	assert.Equal(t, u.ID.Key(), cell.Top)

	_, err = b.Inspect(pos(3, 0))
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	sel, err := b.Select(pos(1, 1))
	require.NoError(t, err)
	assert.Equal(t, u.ID, sel.ID)
	assert.Equal(t, u.ID.Key(), b.View(0).Selected)

	_, err = b.Select(pos(-1, 0))
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)
	_, ok := b.Tilemap.Selected()
	assert.False(t, ok)
}
