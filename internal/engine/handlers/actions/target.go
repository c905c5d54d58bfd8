package actions

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// target resolves a wire id against the battle registry.
func target(ctx handlers.Context, raw string) (*domain.Entity, error) {
	id, err := domain.ParseEntityID(raw)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", raw, err)
	}
	return ctx.Battle.Get(id)
}

func position(p api.PositionView) domain.Position {
	return domain.Position{X: p.X, Y: p.Y}
}

func entityResult(e *domain.Entity, msg string) handlers.Result {
	view := battle.ToEntityView(e)
	return handlers.Result{Msg: msg, MsgType: "EDIT", Entity: &view}
}
