package domain

import "encoding/json"

// InternalCommand - команда для инстанса карты.
// Использует ActionType вместо string.
type InternalCommand struct {
	Action  ActionType
	Session string          // кто прислал (websocket-сессия, сценарий, CLI)
	Payload json.RawMessage // сырые данные, парсятся хендлером
}
