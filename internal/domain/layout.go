package domain

// LayoutRecord is one placed entity in a saved layout. Terrain tiles are not
// recorded; they are recreated for every cell on load.
type LayoutRecord struct {
	ID          EntityID   `json:"id" yaml:"id"`
	Kind        EntityKind `json:"kind" yaml:"kind"`
	Pos         Position   `json:"pos" yaml:"pos"`
	Collidable  bool       `json:"collidable" yaml:"collidable"`
	Cost        int        `json:"cost" yaml:"cost"`
	Team        int        `json:"team" yaml:"team"`
	Sprite      string     `json:"sprite" yaml:"sprite"`
	Destination Position   `json:"destination" yaml:"destination"`
}

// LayoutSnapshot - полная раскладка карты для сохранения
type LayoutSnapshot struct {
	MapID     uint16         `json:"mapId" yaml:"mapId"`
	Dim       Dim            `json:"dim" yaml:"dim"`
	Seed      int64          `json:"seed" yaml:"seed"` // зерно генерации фона
	Timestamp int64          `json:"timestamp" yaml:"timestamp"`
	Records   []LayoutRecord `json:"records" yaml:"records"`
}
