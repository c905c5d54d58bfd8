package engine

import (
	"container/heap"
	"sort"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
)

// TurnManager manages the priority queue of unit steps.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[domain.EntityID]*TurnItem
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.EntityID]*TurnItem),
	}
}

// AddEntity registers a wandering unit. Entities without Wander are ignored.
func (tm *TurnManager) AddEntity(e *domain.Entity) {
	if e.Wander == nil {
		return
	}
	if _, ok := tm.itemMap[e.ID]; ok {
		tm.UpdatePriority(e.ID, e.Wander.NextMoveTick)
		return
	}

	item := &TurnItem{
		Value:    e,
		Priority: e.Wander.NextMoveTick,
	}

	heap.Push(&tm.queue, item)
	tm.itemMap[e.ID] = item

	logger.Log.WithField("entity_id", e.ID).Debug("Unit added to TurnManager")
}

// Schedule adds the unit or moves it to its current NextMoveTick.
func (tm *TurnManager) Schedule(e *domain.Entity) {
	tm.AddEntity(e)
}

// Unschedule is RemoveEntity under the handlers.Scheduler name.
func (tm *TurnManager) Unschedule(id domain.EntityID) {
	tm.RemoveEntity(id)
}

// UpdatePriority updates a unit's position in the queue (e.g. after it stepped).
func (tm *TurnManager) UpdatePriority(entityID domain.EntityID, newTick int) {
	if item, ok := tm.itemMap[entityID]; ok {
		tm.queue.Update(item, newTick)
	}
}

// PeekNext returns the unit whose step is next, without removing it.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// RemoveEntity removes a unit from the turn system (e.g. destroyed).
func (tm *TurnManager) RemoveEntity(entityID domain.EntityID) {
	if item, ok := tm.itemMap[entityID]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, entityID)
	}
}

func (tm *TurnManager) Has(entityID domain.EntityID) bool {
	_, ok := tm.itemMap[entityID]
	return ok
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// Reset empties the queue (battle replaced).
func (tm *TurnManager) Reset() {
	tm.queue = tm.queue[:0]
	tm.itemMap = make(map[domain.EntityID]*TurnItem)
}

// TurnView - строка дампа очереди.
type TurnView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NextTick int    `json:"nextTick"`
}

// DebugDump возвращает снимок очереди в порядке шагов
func (tm *TurnManager) DebugDump() []TurnView {
	// Пустой слайс, а не nil: в JSON это "[]", а не "null"
	result := make([]TurnView, 0, len(tm.queue))
	for _, item := range tm.queue {
		result = append(result, TurnView{
			ID:       item.Value.ID.Key(),
			Name:     item.Value.Name,
			NextTick: item.Priority,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].NextTick != result[j].NextTick {
			return result[i].NextTick < result[j].NextTick
		}
		return result[i].ID < result[j].ID
	})
	return result
}
