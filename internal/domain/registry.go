package domain

import "sort"

// Registry is the entity/component store of one battle map.
type Registry struct {
	mapID    uint16
	next     uint64
	entities map[EntityID]*Entity
}

func NewRegistry(mapID uint16) *Registry {
	return &Registry{
		mapID:    mapID,
		entities: make(map[EntityID]*Entity),
	}
}

// NextID выдает новый ID для сущности заданного типа. Индексы начинаются с 1,
// так что NilEntityID никогда не выдается.
func (r *Registry) NextID(kind EntityKind) EntityID {
	r.next++
	return PackEntityID(kind, r.mapID, r.next)
}

// Register добавляет сущность в реестр
func (r *Registry) Register(e *Entity) {
	r.entities[e.ID] = e
	// keep NextID ahead of externally assigned ids (snapshot restore)
	if e.ID.Map() == r.mapID && e.ID.Index() > r.next {
		r.next = e.ID.Index()
	}
}

// Unregister удаляет сущность из реестра
func (r *Registry) Unregister(id EntityID) {
	delete(r.entities, id)
}

// Get ищет сущность по ID
func (r *Registry) Get(id EntityID) *Entity {
	return r.entities[id]
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// Each visits entities in id order.
func (r *Registry) Each(fn func(e *Entity)) {
	ids := make([]EntityID, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(r.entities[id])
	}
}

// BlockingCost implements BlockingLookup through the collidable component.
// Unknown ids and entities without a collidable never block.
func (r *Registry) BlockingCost(id EntityID) (int, bool) {
	e := r.entities[id]
	if e == nil || e.Collidable == nil {
		return 0, false
	}
	return e.Collidable.Cost, true
}
