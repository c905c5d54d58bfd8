package systems

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/tilemap"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	To        domain.Position
	HasMoved  bool
	BlockedBy domain.EntityID // impassable occupant of the target tile
	IsWall    bool            // target is outside the map
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
// Only single grid steps (|dx|,|dy| <= 1, not both zero) can succeed.
func CalculateMove(e *domain.Entity, dx, dy int, tm *tilemap.Tilemap, lookup domain.BlockingLookup) MovementResult {
	target := e.Pos.Shift(dx, dy)
	res := MovementResult{To: target}

	if !e.Pos.IsAdjacent(target) {
		return res
	}

	// 1. Проверка границ
	if !tm.InBounds(target) {
		res.IsWall = true
		return res
	}

	// 2. Проверка препятствий. Advisory costs (units, scenery) never stop a step.
	occupants, _ := tm.OccupantsAt(target)
	for _, id := range occupants {
		if id == e.ID {
			continue
		}
		if domain.IsImpassable(lookup, id) {
			res.BlockedBy = id
			return res
		}
	}

	res.HasMoved = true
	return res
}
