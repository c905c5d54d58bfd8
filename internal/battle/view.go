package battle

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// View builds the client snapshot. Terrain is implied by the grid size.
func (b *Battle) View(tick int) *api.BattleView {
	dim := b.Dim()
	v := &api.BattleView{
		ID:       b.ID,
		Tick:     tick,
		Seed:     b.Seed,
		Grid:     api.GridMeta{Width: dim.W, Height: dim.H},
		Entities: make([]api.EntityView, 0),
	}
	if sel, ok := b.Tilemap.Selected(); ok {
		v.Selected = sel.Key()
	}
	b.Registry.Each(func(e *domain.Entity) {
		if e.Kind == domain.KindTerrain {
			return
		}
		v.Entities = append(v.Entities, ToEntityView(e))
	})
	return v
}

// ToEntityView конвертирует доменную сущность в DTO
func ToEntityView(e *domain.Entity) api.EntityView {
	view := api.EntityView{
		ID:   e.ID.Key(),
		Kind: e.Kind.String(),
		Name: e.Name,
		Pos:  toPositionView(e.Pos),
	}

	if e.Render != nil {
		view.Render.Sprite = e.Render.Sprite
		view.Render.Color = e.Render.Color
	}
	if e.Collidable != nil {
		cost := e.Collidable.Cost
		view.Cost = &cost
	}
	if e.Team != nil {
		team := e.Team.ID
		view.Team = &team
	}
	if e.Damageable != nil {
		view.Stats = &api.StatsView{
			HP:     e.Damageable.HP,
			MaxHP:  e.Damageable.MaxHP,
			IsDead: e.Damageable.IsDead(),
		}
		if e.UnitInfo != nil {
			view.Stats.Damage = e.UnitInfo.Damage
			view.Stats.Kills = e.UnitInfo.Kills
		}
	}
	if e.Wander != nil {
		dest := toPositionView(e.Wander.Destination)
		view.Destination = &dest
		for _, p := range e.Wander.Route {
			view.Route = append(view.Route, toPositionView(p))
		}
	}
	return view
}

func toPositionView(p domain.Position) api.PositionView {
	return api.PositionView{X: p.X, Y: p.Y}
}

// ToPositions converts wire positions back to domain ones.
func ToPositions(in []api.PositionView) []domain.Position {
	out := make([]domain.Position, len(in))
	for i, p := range in {
		out[i] = domain.Position{X: p.X, Y: p.Y}
	}
	return out
}

// PositionViews converts domain positions for the wire.
func PositionViews(in []domain.Position) []api.PositionView {
	out := make([]api.PositionView, len(in))
	for i, p := range in {
		out[i] = toPositionView(p)
	}
	return out
}

// Inspect describes one tile.
func (b *Battle) Inspect(pos domain.Position) (*api.CellView, error) {
	ids, err := b.Tilemap.OccupantsAt(pos)
	if err != nil {
		return nil, err
	}
	cell := &api.CellView{
		X:         pos.X,
		Y:         pos.Y,
		Occupants: make([]string, len(ids)),
		Blocked:   b.Tilemap.IsBlocked(pos, b.Registry),
	}
	for i, id := range ids {
		cell.Occupants[i] = id.Key()
	}
	if top, ok := b.Tilemap.Top(pos); ok {
		cell.Top = top.Key()
	}
	return cell, nil
}

// Select marks the front-most occupant of pos. An empty tile clears the
// selection and returns nil.
func (b *Battle) Select(pos domain.Position) (*domain.Entity, error) {
	if !b.Tilemap.InBounds(pos) {
		b.Tilemap.ClearSelection()
		return nil, b.outOfBounds(pos)
	}
	id, ok := b.Tilemap.Select(pos)
	if !ok {
		return nil, nil
	}
	return b.Registry.Get(id), nil
}
