package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Response types.
const (
	TypeUpdate = "UPDATE" // broadcast after a mutating command or an AI tick
	TypeResult = "RESULT" // reply to a single command
	TypeError  = "ERROR"
)

// ServerResponse это корневой объект, который сервер отправляет клиенту.
type ServerResponse struct {
	// Type - UPDATE, RESULT или ERROR.
	Type string `json:"type"`

	// Battle ID карты, к которой относится сообщение.
	Battle int `json:"battle"`

	// Tick текущее время симуляции карты.
	Tick int `json:"tick"`

	// Action echoes the command this response answers.
	Action string `json:"action,omitempty"`

	// Error is set for TypeError.
	Error string `json:"error,omitempty"`

	// View снимок карты. Отправляется в UPDATE и в ответ на SNAPSHOT.
	View *BattleView `json:"view,omitempty"`

	// Path результат FIND_PATH.
	Path *PathView `json:"path,omitempty"`

	// Cell результат INSPECT.
	Cell *CellView `json:"cell,omitempty"`

	// Entity - созданная или выбранная сущность.
	Entity *EntityView `json:"entity,omitempty"`

	// Layouts список сохраненных раскладок (SAVE_LAYOUT/LOAD_LAYOUT).
	Layouts []string `json:"layouts,omitempty"`

	// Logs срез новых сообщений с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`
}

// GridMeta содержит размеры карты.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// BattleView это снимок одной боевой карты. Terrain tiles are implied by Grid
// and not listed.
type BattleView struct {
	ID       int          `json:"id"`
	Tick     int          `json:"tick"`
	Seed     int64        `json:"seed"`
	Grid     GridMeta     `json:"grid"`
	Selected string       `json:"selected,omitempty"`
	Entities []EntityView `json:"entities"`
}

// PositionView - координата тайла.
type PositionView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EntityView это DTO для сущности на карте.
type EntityView struct {
	ID   string       `json:"id"`
	Kind string       `json:"kind"` // TERRAIN, SCENERY, OBSTACLE, UNIT
	Name string       `json:"name"`
	Pos  PositionView `json:"pos"`

	Render struct {
		Sprite string `json:"sprite"`
		Color  string `json:"color"`
	} `json:"render"`

	// Cost стоимость прохода, nil если сущность не участвует в коллизиях.
	Cost *int `json:"cost,omitempty"`

	Team  *int       `json:"team,omitempty"`
	Stats *StatsView `json:"stats,omitempty"`

	Destination *PositionView  `json:"destination,omitempty"`
	Route       []PositionView `json:"route,omitempty"`
}

// StatsView это DTO для характеристик юнита.
type StatsView struct {
	HP     int  `json:"hp"`
	MaxHP  int  `json:"maxHp"`
	Damage int  `json:"damage"`
	Kills  int  `json:"kills"`
	IsDead bool `json:"isDead"`
}

// CellView описывает содержимое одного тайла (INSPECT, /debug/cell).
type CellView struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Occupants []string `json:"occupants"` // back to front
	Top       string   `json:"top,omitempty"`
	Blocked   bool     `json:"blocked"`
}

// PathView результат поиска пути.
type PathView struct {
	Status   string         `json:"status"` // FOUND, UNREACHABLE, TRUNCATED
	Path     []PositionView `json:"path,omitempty"`
	Steps    int            `json:"steps"`
	Cost     float64        `json:"cost"`
	Explored int            `json:"explored"`
}

// LogEntry представляет одну запись в логе карты.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, EDIT, AI, COMBAT, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Battle ID карты. Первое сообщение подписывает сессию на эту карту.
	Battle int `json:"battle"`

	// Action название действия.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// PositionPayload используется для действий, нацеленных на тайл (INSPECT, SELECT).
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlaceObstaclePayload - PLACE_OBSTACLE. Cost defaults to impassable.
type PlaceObstaclePayload struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Cost   *int   `json:"cost,omitempty"`
	Sprite string `json:"sprite,omitempty"`
}

// PlaceUnitPayload - PLACE_UNIT. Destination defaults to the bottom-right tile.
type PlaceUnitPayload struct {
	X           int           `json:"x"`
	Y           int           `json:"y"`
	Team        int           `json:"team"`
	Destination *PositionView `json:"destination,omitempty"`
}

// EntityPayload используется для действий, нацеленных на сущность (REMOVE, DESTROY).
type EntityPayload struct {
	TargetID string `json:"targetId"`
}

// MovePayload - MOVE: переставить сущность на тайл.
type MovePayload struct {
	TargetID string `json:"targetId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// DestinationPayload - SET_DESTINATION для юнита.
type DestinationPayload struct {
	TargetID string `json:"targetId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// FindPathPayload - FIND_PATH. Cap and Heuristic override the server defaults.
type FindPathPayload struct {
	From      PositionView `json:"from"`
	To        PositionView `json:"to"`
	Cap       *int         `json:"cap,omitempty"`
	Heuristic *string      `json:"heuristic,omitempty"`
}

// LayoutPayload - SAVE_LAYOUT / LOAD_LAYOUT. Empty name on LOAD lists layouts.
type LayoutPayload struct {
	Name string `json:"name"`
}
