package handlers

import (
	"encoding/json"
	"errors"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

// ErrNoStorage - сохранение раскладок выключено в конфиге.
var ErrNoStorage = errors.New("layout storage is disabled")

// Scheduler - очередь шагов юнитов инстанса.
type Scheduler interface {
	Schedule(e *domain.Entity)
	Unschedule(id domain.EntityID)
}

// LayoutStore сохраняет и загружает раскладки карт.
// *storage.Store неявно реализует этот интерфейс.
type LayoutStore interface {
	Save(name string, snap domain.LayoutSnapshot) error
	Load(name string) (domain.LayoutSnapshot, error)
	Names() ([]string, error)
}

// Context передает хендлеру состояние карты.
// Хендлер вызывается только из цикла инстанса, поэтому может мутировать Battle.
type Context struct {
	Battle  *battle.Battle
	Finder  *pathfind.Finder
	Turns   Scheduler
	Layouts LayoutStore // nil, если хранилище выключено

	Tick    int
	Session string // кто прислал команду

	// Replace подменяет карту инстанса (LOAD_LAYOUT).
	Replace func(b *battle.Battle)
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи инстанса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, EDIT, AI)

	Entity  *api.EntityView
	Cell    *api.CellView
	Path    *api.PathView
	View    *api.BattleView
	Layouts []string
}

// HandlerFunc - это контракт для любой команды (MOVE, FIND_PATH, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
