package actions

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// DefaultLayoutName is used when SAVE_LAYOUT has no name.
func DefaultLayoutName(battleID int) string {
	return fmt.Sprintf("battle_%d", battleID)
}

func HandleSaveLayout(ctx handlers.Context, p api.LayoutPayload) (handlers.Result, error) {
	if ctx.Layouts == nil {
		return handlers.EmptyResult(), handlers.ErrNoStorage
	}
	name := p.Name
	if name == "" {
		name = DefaultLayoutName(ctx.Battle.ID)
	}
	snap := ctx.Battle.ToLayout()
	if err := ctx.Layouts.Save(name, snap); err != nil {
		return handlers.EmptyResult(), err
	}
	names, err := ctx.Layouts.Names()
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Layout %q saved (%d entities)", name, len(snap.Records)),
		MsgType: "INFO",
		Layouts: names,
	}, nil
}

// HandleLoadLayout replaces the battle with a saved layout. An empty name
// only lists what is stored.
func HandleLoadLayout(ctx handlers.Context, p api.LayoutPayload) (handlers.Result, error) {
	if ctx.Layouts == nil {
		return handlers.EmptyResult(), handlers.ErrNoStorage
	}
	names, err := ctx.Layouts.Names()
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if p.Name == "" {
		return handlers.Result{Layouts: names}, nil
	}

	snap, err := ctx.Layouts.Load(p.Name)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	b, err := battle.FromLayout(ctx.Battle.ID, snap)
	if err != nil {
		return handlers.EmptyResult(), fmt.Errorf("load layout %q: %w", p.Name, err)
	}
	ctx.Replace(b)
	return handlers.Result{
		Msg:     fmt.Sprintf("Layout %q loaded (%d entities)", p.Name, len(snap.Records)),
		MsgType: "INFO",
		Layouts: names,
		View:    b.View(ctx.Tick),
	}, nil
}
