package battle

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

// Template определяет шаблон для создания сущности карты
type Template struct {
	Kind   domain.EntityKind
	Name   string
	Render domain.RenderComponent
}

// Spawn создает сущность из шаблона на заданной позиции. Components beyond
// rendering are added by the caller.
func (t Template) Spawn(id domain.EntityID, pos domain.Position) *domain.Entity {
	return &domain.Entity{
		ID:   id,
		Kind: t.Kind,
		Name: t.Name,
		Pos:  pos,
		Render: &domain.RenderComponent{
			Sprite: t.Render.Sprite,
			Color:  t.Render.Color,
		},
	}
}

// WithSprite returns a copy using another sprite.
func (t Template) WithSprite(sprite string) Template {
	if sprite != "" {
		t.Render.Sprite = sprite
	}
	return t
}

// --- ФОН ---

var BaseTile = Template{
	Kind:   domain.KindTerrain,
	Name:   "Ground",
	Render: domain.RenderComponent{Sprite: "base", Color: "#3F3F46"},
}

// --- ДЕКОРАЦИИ ---

var Scenery = Template{
	Kind:   domain.KindScenery,
	Name:   "Scenery",
	Render: domain.RenderComponent{Sprite: "tree_1", Color: "#4D7C0F"},
}

// SceneryPalette - спрайты для случайной расстановки.
var SceneryPalette = []string{"tree_1", "tree_2", "tree_round", "rocks", "bramble"}

// --- ПРЕПЯТСТВИЯ ---

var Obstacle = Template{
	Kind:   domain.KindObstacle,
	Name:   "Cactus",
	Render: domain.RenderComponent{Sprite: "cactus", Color: "#65A30D"},
}

// --- ЮНИТЫ ---

var Soldier = Template{
	Kind:   domain.KindUnit,
	Name:   "Soldier",
	Render: domain.RenderComponent{Sprite: "soldier_spear", Color: "#FFFFFF"},
}

// TeamColours tint units by side.
var TeamColours = map[int]string{
	domain.TeamPlayer: "#22D3EE",
	domain.TeamEnemy:  "#EF4444",
}
