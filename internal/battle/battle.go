// Package battle holds the state of one battle map: the occupancy grid, the
// entity registry and the seeded generator used to decorate it.
package battle

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/tilemap"
)

var (
	// ErrTerrain - фоновые тайлы нельзя удалять или двигать.
	ErrTerrain = errors.New("terrain tiles are fixed")
	// ErrNotUnit - операция только для юнитов.
	ErrNotUnit = errors.New("entity is not a unit")
	// ErrDead - юнит уничтожен и снят с карты.
	ErrDead = errors.New("unit is destroyed")
)

// Battle is not safe for concurrent use; an engine instance owns it.
type Battle struct {
	ID       int
	Seed     int64
	Tilemap  *tilemap.Tilemap
	Registry *domain.Registry

	rng *rand.Rand
}

// New creates a w x h map with one base terrain tile in every cell.
func New(id int, dim domain.Dim, seed int64) (*Battle, error) {
	tm, err := tilemap.New(dim.W, dim.H)
	if err != nil {
		return nil, fmt.Errorf("create battle %d: %w", id, err)
	}

	b := &Battle{
		ID:       id,
		Seed:     seed,
		Tilemap:  tm,
		Registry: domain.NewRegistry(uint16(id)),
		rng:      rand.New(rand.NewSource(seed)),
	}

	for y := 0; y < dim.H; y++ {
		for x := 0; x < dim.W; x++ {
			pos := domain.Position{X: x, Y: y}
			b.place(BaseTile.Spawn(b.Registry.NextID(domain.KindTerrain), pos))
		}
	}
	return b, nil
}

// place registers e and puts it on its tile. The caller checks bounds.
func (b *Battle) place(e *domain.Entity) {
	b.Registry.Register(e)
	_ = b.Tilemap.Add(e.ID, e.Pos)
}

func (b *Battle) Dim() domain.Dim {
	return b.Tilemap.Dim()
}

// Rng is the map's seeded generator.
func (b *Battle) Rng() *rand.Rand {
	return b.rng
}

// Distribute scatters scenery: every cell independently gets a random sprite
// from sprites with probability percent/100. Each piece carries a collidable
// attribute with cost. Returns the number placed.
func (b *Battle) Distribute(percent float64, sprites []string, cost int) int {
	if len(sprites) == 0 {
		sprites = SceneryPalette
	}
	dim := b.Dim()
	placed := 0
	for y := 0; y < dim.H; y++ {
		for x := 0; x < dim.W; x++ {
			if !(b.rng.Float64()*100 < percent) {
				continue
			}
			sprite := sprites[b.rng.Intn(len(sprites))]
			e := Scenery.WithSprite(sprite).Spawn(b.Registry.NextID(domain.KindScenery), domain.Position{X: x, Y: y})
			e.Collidable = &domain.CollidableComponent{Cost: cost}
			b.place(e)
			placed++
		}
	}
	return placed
}

// CreateObstacle places an editor obstacle. Use domain.Impassable for a
// tile the pathfinder must route around.
func (b *Battle) CreateObstacle(pos domain.Position, cost int, sprite string) (*domain.Entity, error) {
	if !b.Tilemap.InBounds(pos) {
		return nil, fmt.Errorf("create obstacle at %s: %w", pos, domain.ErrOutOfBounds)
	}
	e := Obstacle.WithSprite(sprite).Spawn(b.Registry.NextID(domain.KindObstacle), pos)
	e.Collidable = &domain.CollidableComponent{Cost: cost}
	b.place(e)
	return e, nil
}

// CreateUnit places a soldier of team at pos. dest nil means the bottom-right
// tile.
func (b *Battle) CreateUnit(pos domain.Position, team int, dest *domain.Position) (*domain.Entity, error) {
	if !b.Tilemap.InBounds(pos) {
		return nil, fmt.Errorf("create unit at %s: %w", pos, domain.ErrOutOfBounds)
	}
	destination := b.Dim().Corner()
	if dest != nil {
		if !b.Tilemap.InBounds(*dest) {
			return nil, fmt.Errorf("create unit: destination %s: %w", *dest, domain.ErrOutOfBounds)
		}
		destination = *dest
	}

	e := Soldier.Spawn(b.Registry.NextID(domain.KindUnit), pos)
	if c, ok := TeamColours[team]; ok {
		e.Render.Color = c
	}
	e.Collidable = &domain.CollidableComponent{Cost: domain.UnitPathCost}
	e.Team = &domain.TeamComponent{ID: team}
	e.Damageable = &domain.DamageableComponent{HP: domain.UnitMaxHP, MaxHP: domain.UnitMaxHP}
	e.UnitInfo = &domain.UnitInfoComponent{Damage: domain.UnitDamage}
	e.Wander = &domain.WanderComponent{
		Destination: destination,
		MoveTicks:   domain.DefaultMoveTicks,
	}
	b.place(e)
	return e, nil
}

// Get ищет сущность по ID
func (b *Battle) Get(id domain.EntityID) (*domain.Entity, error) {
	e := b.Registry.Get(id)
	if e == nil {
		return nil, fmt.Errorf("entity %s: %w", id, domain.ErrUnknownEntity)
	}
	return e, nil
}

// Remove deletes a placed entity from the map and the registry.
func (b *Battle) Remove(id domain.EntityID) (*domain.Entity, error) {
	e, err := b.Get(id)
	if err != nil {
		return nil, err
	}
	if e.Kind == domain.KindTerrain {
		return nil, fmt.Errorf("remove %s: %w", id, ErrTerrain)
	}
	b.Tilemap.Remove(id, e.Pos)
	b.Registry.Unregister(id)
	return e, nil
}

// DestroyUnit takes a unit off the map and drops its hp to zero. The unit
// stays in the registry as a casualty.
func (b *Battle) DestroyUnit(id domain.EntityID) (*domain.Entity, error) {
	e, err := b.Get(id)
	if err != nil {
		return nil, err
	}
	if e.Kind != domain.KindUnit || e.Damageable == nil {
		return nil, fmt.Errorf("destroy %s: %w", id, ErrNotUnit)
	}
	if !e.IsAlive() {
		return nil, fmt.Errorf("destroy %s: %w", id, ErrDead)
	}
	b.Tilemap.Remove(id, e.Pos)
	e.Damageable.Damage(e.Damageable.MaxHP)
	if e.Wander != nil {
		e.Wander.Route = nil
	}
	return e, nil
}

// MoveEntity keeps Entity.Pos and the tilemap in step. On error nothing
// changes.
func (b *Battle) MoveEntity(id domain.EntityID, to domain.Position) error {
	e, err := b.Get(id)
	if err != nil {
		return err
	}
	if e.Kind == domain.KindTerrain {
		return fmt.Errorf("move %s: %w", id, ErrTerrain)
	}
	if !e.IsAlive() {
		return fmt.Errorf("move %s: %w", id, ErrDead)
	}
	if err := b.Tilemap.Move(id, e.Pos, to); err != nil {
		return fmt.Errorf("move %s: %w", id, err)
	}
	e.Pos = to
	return nil
}

// SetDestination retargets a unit's wandering and drops its current route.
func (b *Battle) SetDestination(id domain.EntityID, dest domain.Position) (*domain.Entity, error) {
	e, err := b.Get(id)
	if err != nil {
		return nil, err
	}
	if e.Wander == nil {
		return nil, fmt.Errorf("set destination of %s: %w", id, ErrNotUnit)
	}
	if !b.Tilemap.InBounds(dest) {
		return nil, fmt.Errorf("set destination of %s to %s: %w", id, dest, domain.ErrOutOfBounds)
	}
	e.Wander.Destination = dest
	e.Wander.Route = nil
	e.Wander.Stuck = 0
	return e, nil
}

// Units returns living units in id order.
func (b *Battle) Units() []*domain.Entity {
	var out []*domain.Entity
	b.Registry.Each(func(e *domain.Entity) {
		if e.Kind == domain.KindUnit && e.IsAlive() {
			out = append(out, e)
		}
	})
	return out
}

// ToLayout records every non-terrain entity still on the map.
func (b *Battle) ToLayout() domain.LayoutSnapshot {
	snap := domain.LayoutSnapshot{
		MapID:     uint16(b.ID),
		Dim:       b.Dim(),
		Seed:      b.Seed,
		Timestamp: time.Now().Unix(),
		Records:   make([]domain.LayoutRecord, 0),
	}
	b.Registry.Each(func(e *domain.Entity) {
		if e.Kind == domain.KindTerrain || !e.IsAlive() {
			return
		}
		rec := domain.LayoutRecord{ID: e.ID, Kind: e.Kind, Pos: e.Pos}
		if e.Collidable != nil {
			rec.Collidable = true
			rec.Cost = e.Collidable.Cost
		}
		if e.Team != nil {
			rec.Team = e.Team.ID
		}
		if e.Render != nil {
			rec.Sprite = e.Render.Sprite
		}
		if e.Wander != nil {
			rec.Destination = e.Wander.Destination
		}
		snap.Records = append(snap.Records, rec)
	})
	return snap
}

// FromLayout rebuilds battle id from a snapshot. Record ids are kept when
// they belong to the same map and do not collide with regenerated terrain.
func FromLayout(id int, snap domain.LayoutSnapshot) (*Battle, error) {
	b, err := New(id, snap.Dim, snap.Seed)
	if err != nil {
		return nil, err
	}

	for i, rec := range snap.Records {
		if !b.Tilemap.InBounds(rec.Pos) {
			return nil, fmt.Errorf("layout record %d at %s: %w", i, rec.Pos, domain.ErrOutOfBounds)
		}

		var e *domain.Entity
		switch rec.Kind {
		case domain.KindUnit:
			dest := rec.Destination
			if !b.Tilemap.InBounds(dest) {
				dest = b.Dim().Corner()
			}
			e, err = b.CreateUnit(rec.Pos, rec.Team, &dest)
		case domain.KindObstacle:
			e, err = b.CreateObstacle(rec.Pos, rec.Cost, rec.Sprite)
		case domain.KindScenery:
			e = Scenery.WithSprite(rec.Sprite).Spawn(b.Registry.NextID(domain.KindScenery), rec.Pos)
			b.place(e)
		default:
			return nil, fmt.Errorf("layout record %d: unsupported kind %s", i, rec.Kind)
		}
		if err != nil {
			return nil, err
		}

		if rec.Collidable {
			e.Collidable = &domain.CollidableComponent{Cost: rec.Cost}
		} else {
			e.Collidable = nil
		}
		if rec.Sprite != "" {
			e.Render.Sprite = rec.Sprite
		}
		b.restoreID(e, rec.ID)
	}
	return b, nil
}

// restoreID swaps a freshly issued id for the saved one when it is free.
func (b *Battle) restoreID(e *domain.Entity, saved domain.EntityID) {
	if saved.IsNil() || saved == e.ID || saved.Map() != uint16(b.ID) || saved.Kind() != e.Kind {
		return
	}
	if b.Registry.Get(saved) != nil {
		return
	}
	b.Tilemap.Remove(e.ID, e.Pos)
	b.Registry.Unregister(e.ID)
	e.ID = saved
	b.place(e)
}

func (b *Battle) outOfBounds(pos domain.Position) error {
	return fmt.Errorf("battle %d tile %s: %w", b.ID, pos, domain.ErrOutOfBounds)
}
