package domain

import "strings"

// EntityKind - тип сущности, старшие 8 бит EntityID.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindTerrain
	KindScenery
	KindObstacle
	KindUnit
)

var kindNames = map[EntityKind]string{
	KindUnknown:  "UNKNOWN",
	KindTerrain:  "TERRAIN",
	KindScenery:  "SCENERY",
	KindObstacle: "OBSTACLE",
	KindUnit:     "UNIT",
}

func (k EntityKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseKind is case-insensitive; unknown strings map to KindUnknown.
func ParseKind(s string) EntityKind {
	upper := strings.ToUpper(s)
	for k, name := range kindNames {
		if name == upper {
			return k
		}
	}
	return KindUnknown
}

// Impassable is the collidable cost that removes a tile from the walkable graph.
const Impassable = -1

// Стоимости прохода по умолчанию (совещательные, поиск их не взвешивает)
const (
	UnitPathCost    = 150
	SceneryPathCost = 0
)

// Unit defaults.
const (
	UnitMaxHP          = 10
	UnitDamage         = 10
	DefaultMoveTicks   = 10 // one tile every 10 simulation ticks
	DefaultAnimTicks   = 3
	DestinationRetries = 8
	SightRadius        = 6 // tiles; hostiles farther away are ignored
)

// Teams
const (
	TeamPlayer = 0
	TeamEnemy  = 1
)
