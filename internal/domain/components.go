package domain

// --- КОМПОНЕНТЫ ---

// RenderComponent - визуальное представление для клиента.
type RenderComponent struct {
	Sprite string `json:"sprite"` // "base", "tree_1", "soldier_spear"...
	Color  string `json:"color"`
}

// CollidableComponent marks an occupant that takes part in path blocking.
// Cost == Impassable removes the tile from the walkable graph; any other
// value is advisory.
type CollidableComponent struct {
	Cost int `json:"cost"`
}

// IsImpassable reports whether the cost equals the sentinel.
func (c *CollidableComponent) IsImpassable() bool {
	return c != nil && c.Cost == Impassable
}

// TeamComponent - принадлежность юнита стороне.
type TeamComponent struct {
	ID int `json:"id"`
}

// DamageableComponent - здоровье.
type DamageableComponent struct {
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
}

// Damage reduces HP, never below zero.
func (d *DamageableComponent) Damage(amount int) {
	d.HP -= amount
	if d.HP < 0 {
		d.HP = 0
	}
}

func (d *DamageableComponent) IsDead() bool {
	return d.HP <= 0
}

// UnitInfoComponent - боевая статистика юнита.
type UnitInfoComponent struct {
	Damage int `json:"damage"`
	Kills  int `json:"kills"`
}

// WanderComponent - маршрут и расписание шагов юнита.
type WanderComponent struct {
	Destination Position   `json:"destination"`
	Route       []Position `json:"route,omitempty"` // оставшиеся клетки, без текущей
	// MoveTicks - сколько тиков между шагами.
	MoveTicks    int `json:"moveTicks"`
	NextMoveTick int `json:"nextMoveTick"` // <-- очередь ходов
	Stuck        int `json:"stuck,omitempty"`
}

// Wait сдвигает следующий шаг на ticks.
func (w *WanderComponent) Wait(now, ticks int) {
	w.NextMoveTick = now + ticks
}
