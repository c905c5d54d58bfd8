package actions

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// HandleFindPath runs one search on the live map. Unreachable and truncated
// searches are results, not errors.
func HandleFindPath(ctx handlers.Context, p api.FindPathPayload) (handlers.Result, error) {
	from, to := position(p.From), position(p.To)
	tm := ctx.Battle.Tilemap
	for _, pos := range []domain.Position{from, to} {
		if !tm.InBounds(pos) {
			return handlers.EmptyResult(), fmt.Errorf("find path %s -> %s: tile %s: %w", from, to, pos, domain.ErrOutOfBounds)
		}
	}

	var opts []pathfind.Option
	if p.Cap != nil {
		opts = append(opts, pathfind.WithCap(*p.Cap))
	}
	if p.Heuristic != nil {
		h, err := pathfind.ParseHeuristic(*p.Heuristic)
		if err != nil {
			return handlers.EmptyResult(), err
		}
		opts = append(opts, pathfind.WithHeuristic(h))
	}

	res := ctx.Finder.Search(tm, ctx.Battle.Registry, []domain.Position{from}, []domain.Position{to}, opts...)
	view := PathView(res)
	return handlers.Result{Path: &view}, nil
}

// PathView converts a search result for the wire.
func PathView(res pathfind.Result) api.PathView {
	return api.PathView{
		Status:   res.Status.String(),
		Path:     battle.PositionViews(res.Path),
		Steps:    res.Path.Steps(),
		Cost:     res.Cost,
		Explored: res.Explored,
	}
}

func HandleInspect(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	cell, err := ctx.Battle.Inspect(domain.Position{X: p.X, Y: p.Y})
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{Cell: cell}, nil
}

// HandleSelect picks the front-most occupant of a tile; an empty result
// entity means the tile was empty.
func HandleSelect(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	e, err := ctx.Battle.Select(domain.Position{X: p.X, Y: p.Y})
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if e == nil {
		return handlers.EmptyResult(), nil
	}
	view := battle.ToEntityView(e)
	return handlers.Result{Entity: &view}, nil
}

func HandleSnapshot(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{View: ctx.Battle.View(ctx.Tick)}, nil
}
