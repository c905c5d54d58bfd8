package actions

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// HandleMove переставляет сущность на любой тайл карты (редактор).
// Маршрут юнита сбрасывается и будет построен заново.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	e, err := target(ctx, p.TargetID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	from := e.Pos
	if err := ctx.Battle.MoveEntity(e.ID, domain.Position{X: p.X, Y: p.Y}); err != nil {
		return handlers.EmptyResult(), err
	}
	if e.Wander != nil {
		e.Wander.Route = nil
	}
	return entityResult(e, fmt.Sprintf("%s moved %s -> %s", e.ID, from, e.Pos)), nil
}

func HandleSetDestination(ctx handlers.Context, p api.DestinationPayload) (handlers.Result, error) {
	e, err := target(ctx, p.TargetID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if _, err := ctx.Battle.SetDestination(e.ID, domain.Position{X: p.X, Y: p.Y}); err != nil {
		return handlers.EmptyResult(), err
	}
	if e.IsAlive() {
		ctx.Turns.Schedule(e)
	}
	return entityResult(e, fmt.Sprintf("%s heads to %s", e.ID, e.Wander.Destination)), nil
}
