package domain

// Entity is anything placed on a battle map: terrain tiles, scenery,
// obstacles and units. Components left nil are absent.
type Entity struct {
	ID   EntityID   `json:"id"`
	Kind EntityKind `json:"kind"`
	Name string     `json:"name"`

	Pos Position `json:"pos"`

	Render     *RenderComponent     `json:"render,omitempty"`
	Collidable *CollidableComponent `json:"collidable,omitempty"`
	Team       *TeamComponent       `json:"team,omitempty"`
	Damageable *DamageableComponent `json:"damageable,omitempty"`
	UnitInfo   *UnitInfoComponent   `json:"unitInfo,omitempty"`
	Wander     *WanderComponent     `json:"wander,omitempty"`
}

// IsAlive - нет компонента здоровья или HP > 0.
func (e *Entity) IsAlive() bool {
	return e.Damageable == nil || !e.Damageable.IsDead()
}
