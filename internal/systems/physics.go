package systems

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/tilemap"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Использует алгоритм Брезенхэма (только целочисленная арифметика).
// Impassable tiles block the line; the end points themselves never do.
func HasLineOfSight(tm *tilemap.Tilemap, lookup domain.BlockingLookup, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		losLogger.Debug("points are identical")
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	sx, sy := p1.DirectionTo(p2)

	err := dx - dy

	for {
		cur := domain.Position{X: x0, Y: y0}
		if cur != p1 && cur != p2 {
			if !tm.InBounds(cur) {
				losLogger.WithField("blocking_point", cur).Debug("line leaves the map")
				return false
			}
			if tm.IsBlocked(cur, lookup) {
				losLogger.WithField("blocking_point", cur).Debug("line is blocked")
				return false
			}
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}

	losLogger.Debug("no obstructions")
	return true
}

// VisibleHostiles returns living units of other teams that observer can see
// within radius tiles, in registry order.
func VisibleHostiles(tm *tilemap.Tilemap, reg *domain.Registry, observer *domain.Entity, radius float64) []*domain.Entity {
	if observer.Team == nil {
		return nil
	}
	var out []*domain.Entity
	reg.Each(func(e *domain.Entity) {
		if e.ID == observer.ID || e.Kind != domain.KindUnit || e.Team == nil || !e.IsAlive() {
			return
		}
		if e.Team.ID == observer.Team.ID {
			return
		}
		if observer.Pos.DistanceTo(e.Pos) > radius {
			return
		}
		if HasLineOfSight(tm, reg, observer.Pos, e.Pos) {
			out = append(out, e)
		}
	})
	return out
}
