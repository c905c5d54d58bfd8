package systems

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/tilemap"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/sirupsen/logrus"
)

// EngageAction - реакция юнита на противников в поле зрения.
type EngageAction uint8

const (
	EngageNone   EngageAction = iota // nobody in sight, keep wandering
	EngageChase                      // hostile in sight, head for it
	EngageStrike                     // hostile adjacent, hit it instead of moving
)

// EngageDecision is computed by Engage and applied by the battle loop.
type EngageDecision struct {
	Action EngageAction
	Target *domain.Entity
}

// Engage looks for the nearest visible hostile within radius that can take
// damage. Adjacent hostiles are struck, farther ones chased.
func Engage(tm *tilemap.Tilemap, reg *domain.Registry, unit *domain.Entity, radius float64) EngageDecision {
	if !unit.IsAlive() {
		return EngageDecision{}
	}
	var target *domain.Entity
	best := 0
	for _, h := range VisibleHostiles(tm, reg, unit, radius) {
		if h.Damageable == nil {
			continue
		}
		d := unit.Pos.DistanceSquaredTo(h.Pos)
		if target == nil || d < best {
			target, best = h, d
		}
	}
	if target == nil {
		return EngageDecision{}
	}
	if unit.Pos.IsAdjacent(target.Pos) {
		return EngageDecision{Action: EngageStrike, Target: target}
	}
	return EngageDecision{Action: EngageChase, Target: target}
}

// ApplyStrike наносит урон цели. Возвращает true, если цель погибла.
// The caller takes a killed target off the map.
func ApplyStrike(attacker, target *domain.Entity) bool {
	if target.Damageable == nil || target.Damageable.IsDead() {
		return false
	}
	damage := domain.UnitDamage
	if attacker.UnitInfo != nil {
		damage = attacker.UnitInfo.Damage
	}

	hpBefore := target.Damageable.HP
	target.Damageable.Damage(damage)
	died := target.Damageable.IsDead()
	if died && attacker.UnitInfo != nil {
		attacker.UnitInfo.Kills++
	}

	logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attacker.ID,
		"target_id":   target.ID,
		"damage":      damage,
		"hp_before":   hpBefore,
		"hp_after":    target.Damageable.HP,
		"target_died": died,
	}).Debug("Strike resolved")
	return died
}
