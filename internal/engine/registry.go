package engine

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers/actions"
)

// actionHandlers maps every client action to its handler.
func actionHandlers() map[domain.ActionType]handlers.HandlerFunc {
	return map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionSnapshot:       handlers.WithEmptyPayload(actions.HandleSnapshot),
		domain.ActionPlaceObstacle:  handlers.WithPayload(actions.HandlePlaceObstacle),
		domain.ActionPlaceUnit:      handlers.WithPayload(actions.HandlePlaceUnit),
		domain.ActionRemove:         handlers.WithPayload(actions.HandleRemove),
		domain.ActionDestroy:        handlers.WithPayload(actions.HandleDestroy),
		domain.ActionMove:           handlers.WithPayload(actions.HandleMove),
		domain.ActionFindPath:       handlers.WithPayload(actions.HandleFindPath),
		domain.ActionInspect:        handlers.WithPayload(actions.HandleInspect),
		domain.ActionSelect:         handlers.WithPayload(actions.HandleSelect),
		domain.ActionSetDestination: handlers.WithPayload(actions.HandleSetDestination),
		domain.ActionSaveLayout:     handlers.WithPayload(actions.HandleSaveLayout),
		domain.ActionLoadLayout:     handlers.WithPayload(actions.HandleLoadLayout),
	}
}
