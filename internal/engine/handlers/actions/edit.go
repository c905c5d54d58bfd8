package actions

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

func HandlePlaceObstacle(ctx handlers.Context, p api.PlaceObstaclePayload) (handlers.Result, error) {
	cost := domain.Impassable
	if p.Cost != nil {
		cost = *p.Cost
	}
	e, err := ctx.Battle.CreateObstacle(domain.Position{X: p.X, Y: p.Y}, cost, p.Sprite)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return entityResult(e, fmt.Sprintf("Obstacle %s placed at %s", e.ID, e.Pos)), nil
}

func HandlePlaceUnit(ctx handlers.Context, p api.PlaceUnitPayload) (handlers.Result, error) {
	var dest *domain.Position
	if p.Destination != nil {
		d := position(*p.Destination)
		dest = &d
	}
	e, err := ctx.Battle.CreateUnit(domain.Position{X: p.X, Y: p.Y}, p.Team, dest)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	e.Wander.NextMoveTick = ctx.Tick + e.Wander.MoveTicks
	ctx.Turns.Schedule(e)
	return entityResult(e, fmt.Sprintf("Unit %s (team %d) placed at %s", e.ID, p.Team, e.Pos)), nil
}

// HandleRemove deletes any non-terrain entity.
func HandleRemove(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	e, err := target(ctx, p.TargetID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if _, err := ctx.Battle.Remove(e.ID); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Turns.Unschedule(e.ID)
	return entityResult(e, fmt.Sprintf("%s %s removed from %s", e.Kind, e.ID, e.Pos)), nil
}

// HandleDestroy kills a unit: it leaves the map but stays listed as dead.
func HandleDestroy(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	e, err := target(ctx, p.TargetID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if _, err := ctx.Battle.DestroyUnit(e.ID); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Turns.Unschedule(e.ID)
	return entityResult(e, fmt.Sprintf("Unit %s destroyed", e.ID)), nil
}
