package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/tilemap"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/sirupsen/logrus"
)

// WanderAction - что юнит решил сделать на этом тике.
type WanderAction uint8

const (
	WanderIdle    WanderAction = iota // not due yet, dead, or no AI
	WanderStep                        // move one tile to Decision.To
	WanderArrived                     // at the destination; pick a new one
	WanderBlocked                     // next route tile became impassable; route dropped
	WanderStuck                       // no route after DestinationRetries attempts
)

var wanderNames = [...]string{"IDLE", "STEP", "ARRIVED", "BLOCKED", "STUCK"}

func (a WanderAction) String() string {
	if int(a) < len(wanderNames) {
		return wanderNames[a]
	}
	return "UNKNOWN"
}

// WanderDecision is computed by StepUnit and applied by the battle loop.
type WanderDecision struct {
	Action WanderAction
	To     domain.Position
}

var ErrNoWander = errors.New("entity has no wander component")

// PlanRoute fills unit.Wander.Route with the tiles between the unit and its
// destination. When the destination holds an impassable occupant the route
// ends on the cheapest free neighbour instead.
func PlanRoute(f *pathfind.Finder, tm *tilemap.Tilemap, lookup domain.BlockingLookup, unit *domain.Entity) error {
	w := unit.Wander
	if w == nil {
		return fmt.Errorf("plan route for %s: %w", unit.ID, ErrNoWander)
	}
	w.Route = nil

	dest := w.Destination
	if !tm.InBounds(dest) {
		return fmt.Errorf("plan route for %s: destination %s: %w", unit.ID, dest, domain.ErrOutOfBounds)
	}
	if dest == unit.Pos {
		return nil
	}

	var (
		path pathfind.Path
		err  error
	)
	if tm.IsBlocked(dest, lookup) {
		path, err = f.FindPathToAny(tm, lookup, unit.Pos, freeNeighbours(tm, lookup, dest))
	} else {
		path, err = f.FindPath(tm, lookup, unit.Pos, dest)
	}
	if err != nil {
		return fmt.Errorf("plan route for %s: %w", unit.ID, err)
	}

	if len(path) > 1 {
		w.Route = append([]domain.Position(nil), path[1:]...)
	}
	return nil
}

func freeNeighbours(tm *tilemap.Tilemap, lookup domain.BlockingLookup, pos domain.Position) []domain.Position {
	var out []domain.Position
	for _, off := range domain.Neighbours8 {
		n := pos.Add(off)
		if tm.InBounds(n) && !tm.IsBlocked(n, lookup) {
			out = append(out, n)
		}
	}
	return out
}

// StepUnit decides the unit's move for tick now. It updates the wander
// component (route, schedule) but never the position or the tilemap; the
// caller applies WanderStep with a move.
func StepUnit(f *pathfind.Finder, tm *tilemap.Tilemap, lookup domain.BlockingLookup, unit *domain.Entity, now int) WanderDecision {
	w := unit.Wander
	if w == nil || !unit.IsAlive() || now < w.NextMoveTick {
		return WanderDecision{Action: WanderIdle}
	}

	aiLogger := logger.For("wander_ai").WithFields(logrus.Fields{
		"unit": unit.ID,
		"pos":  unit.Pos,
		"tick": now,
	})

	if unit.Pos == w.Destination {
		w.Route = nil
		return WanderDecision{Action: WanderArrived}
	}

	if len(w.Route) == 0 {
		if err := PlanRoute(f, tm, lookup, unit); err != nil {
			w.Stuck++
			w.Wait(now, w.MoveTicks)
			aiLogger.WithError(err).WithField("attempt", w.Stuck).Debug("no route")
			if w.Stuck >= domain.DestinationRetries {
				w.Stuck = 0
				return WanderDecision{Action: WanderStuck}
			}
			return WanderDecision{Action: WanderIdle}
		}
		w.Stuck = 0
		if len(w.Route) == 0 {
			// next to a blocked destination: as close as it gets
			return WanderDecision{Action: WanderArrived}
		}
	}

	next := w.Route[0]
	dx, dy := next.X-unit.Pos.X, next.Y-unit.Pos.Y
	res := CalculateMove(unit, dx, dy, tm, lookup)
	if !res.HasMoved {
		aiLogger.WithField("next", next).Debug("route blocked, replanning later")
		w.Route = nil
		w.Wait(now, w.MoveTicks)
		return WanderDecision{Action: WanderBlocked, To: next}
	}

	w.Route = w.Route[1:]
	w.Wait(now, w.MoveTicks)
	return WanderDecision{Action: WanderStep, To: res.To}
}

// PickDestination chooses a random free tile other than the unit's own.
// Returns false after DestinationRetries misses.
func PickDestination(rng *rand.Rand, tm *tilemap.Tilemap, lookup domain.BlockingLookup, unit *domain.Entity) (domain.Position, bool) {
	for i := 0; i < domain.DestinationRetries; i++ {
		p := domain.Position{X: rng.Intn(tm.Width()), Y: rng.Intn(tm.Height())}
		if p == unit.Pos || tm.IsBlocked(p, lookup) {
			continue
		}
		return p, true
	}
	return unit.Pos, false
}
