package domain

import "strings"

// ActionType - внутренний числовой идентификатор команды карты
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionSnapshot
	ActionPlaceObstacle
	ActionPlaceUnit
	ActionRemove
	ActionDestroy
	ActionMove
	ActionFindPath
	ActionInspect
	ActionSelect
	ActionSetDestination
	ActionSaveLayout
	ActionLoadLayout
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"SNAPSHOT":        ActionSnapshot,
	"PLACE_OBSTACLE":  ActionPlaceObstacle,
	"PLACE_UNIT":      ActionPlaceUnit,
	"REMOVE":          ActionRemove,
	"DESTROY":         ActionDestroy,
	"MOVE":            ActionMove,
	"FIND_PATH":       ActionFindPath,
	"INSPECT":         ActionInspect,
	"SELECT":          ActionSelect,
	"SET_DESTINATION": ActionSetDestination,
	"SAVE_LAYOUT":     ActionSaveLayout,
	"LOAD_LAYOUT":     ActionLoadLayout,
}

// Маппинг для логов Domain -> String
var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for s, a := range actionStringToCmd {
		m[a] = s
	}
	return m
}()

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// Mutates reports whether the action changes occupancy.
func (a ActionType) Mutates() bool {
	switch a {
	case ActionPlaceObstacle, ActionPlaceUnit, ActionRemove, ActionDestroy, ActionMove, ActionLoadLayout:
		return true
	}
	return false
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
