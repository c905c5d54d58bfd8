// Package pathfind computes routes over a tilemap. The grid is an implicit
// 8-connected graph: orthogonal steps cost 1, diagonal steps √2, and a tile
// holding an impassable occupant has no incoming edges.
package pathfind

import (
	"container/heap"
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

const (
	// DefaultCap bounds the number of edge relaxations per search.
	DefaultCap = 10000
	// NoCap disables the exploration cap.
	NoCap = -1
)

// Grid is what the search needs from the occupancy grid.
// *tilemap.Tilemap satisfies it.
type Grid interface {
	InBounds(pos domain.Position) bool
	IsBlocked(pos domain.Position, lookup domain.BlockingLookup) bool
}

// Options tune a single search.
type Options struct {
	// Cap limits edge relaxations. 0 means DefaultCap, negative disables.
	Cap int
	// Heuristic is added to the priority key. nil searches in plain
	// cost-from-start order.
	Heuristic Heuristic
}

// Option mutates Options.
type Option func(*Options)

// WithCap sets the exploration cap; pass NoCap to disable it. Zero is the
// unset value and means DefaultCap, so there is no zero-relaxation budget.
func WithCap(n int) Option {
	return func(o *Options) { o.Cap = n }
}

// WithHeuristic selects the priority heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) { o.Heuristic = h }
}

func (o Options) apply(opts []Option) Options {
	for _, fn := range opts {
		fn(&o)
	}
	if o.Cap == 0 {
		o.Cap = DefaultCap
	}
	return o
}

// Finder carries per-deployment defaults (from config); per-call options
// override them.
type Finder struct {
	defaults Options
}

func NewFinder(defaults Options) *Finder {
	return &Finder{defaults: defaults}
}

// Defaults returns the finder's base options.
func (f *Finder) Defaults() Options {
	if f == nil {
		return Options{}
	}
	return f.defaults
}

// FindPath routes from start to goal. start == goal yields the single-tile
// path. Failures wrap domain.ErrNotFound; out-of-bounds endpoints are
// contract violations and return domain.ErrOutOfBounds.
func (f *Finder) FindPath(grid Grid, lookup domain.BlockingLookup, start, goal domain.Position, opts ...Option) (Path, error) {
	for _, p := range [2]domain.Position{start, goal} {
		if !grid.InBounds(p) {
			return nil, fmt.Errorf("find path %s -> %s: tile %s: %w", start, goal, p, domain.ErrOutOfBounds)
		}
	}
	if start == goal {
		return Path{start}, nil
	}
	res := f.Search(grid, lookup, []domain.Position{start}, []domain.Position{goal}, opts...)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("find path %s -> %s: %w", start, goal, err)
	}
	return res.Path, nil
}

// FindPathToAny routes from start to whichever goal is cheapest to reach,
// e.g. any free tile next to a target.
func (f *Finder) FindPathToAny(grid Grid, lookup domain.BlockingLookup, start domain.Position, goals []domain.Position, opts ...Option) (Path, error) {
	if !grid.InBounds(start) {
		return nil, fmt.Errorf("find path from %s: %w", start, domain.ErrOutOfBounds)
	}
	res := f.Search(grid, lookup, []domain.Position{start}, goals, opts...)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("find path from %s to any of %d tiles: %w", start, len(goals), err)
	}
	return res.Path, nil
}

// Search is the multi-source, multi-sink form. It never fails with an
// error; the outcome is tagged in Result.Status.
func (f *Finder) Search(grid Grid, lookup domain.BlockingLookup, starts, goals []domain.Position, opts ...Option) Result {
	o := f.Defaults().apply(opts)
	res := search(grid, lookup, starts, goals, o)

	logger.For("pathfind").WithFields(logrus.Fields{
		"starts":   len(starts),
		"goals":    len(goals),
		"status":   res.Status,
		"explored": res.Explored,
		"steps":    res.Path.Steps(),
	}).Debug("search finished")

	return res
}

var defaultFinder = &Finder{}

// FindPath uses the package defaults (no heuristic, DefaultCap).
func FindPath(grid Grid, lookup domain.BlockingLookup, start, goal domain.Position, opts ...Option) (Path, error) {
	return defaultFinder.FindPath(grid, lookup, start, goal, opts...)
}

// FindPathToAny uses the package defaults.
func FindPathToAny(grid Grid, lookup domain.BlockingLookup, start domain.Position, goals []domain.Position, opts ...Option) (Path, error) {
	return defaultFinder.FindPathToAny(grid, lookup, start, goals, opts...)
}

// Search uses the package defaults.
func Search(grid Grid, lookup domain.BlockingLookup, starts, goals []domain.Position, opts ...Option) Result {
	return defaultFinder.Search(grid, lookup, starts, goals, opts...)
}

func search(grid Grid, lookup domain.BlockingLookup, starts, goals []domain.Position, o Options) Result {
	if len(goals) == 0 {
		return Result{Status: Unreachable}
	}

	goalSet := mapset.New[domain.Position]()
	for _, g := range goals {
		goalSet.Put(g)
	}
	for _, s := range starts {
		if goalSet.Has(s) {
			return Result{Status: Found, Path: Path{s}}
		}
	}

	estimate := towards(o.Heuristic, goals)

	gScore := make(map[domain.Position]float64)
	cameFrom := make(map[domain.Position]domain.Position)
	closed := mapset.New[domain.Position]()

	open := make(frontier, 0, 64)
	heap.Init(&open)
	for _, s := range starts {
		if !grid.InBounds(s) {
			continue
		}
		gScore[s] = 0
		heap.Push(&open, &frontierItem{pos: s, priority: estimate(s)})
	}

	explored := 0
	for open.Len() > 0 {
		current := heap.Pop(&open).(*frontierItem).pos

		if goalSet.Has(current) {
			return Result{
				Status:   Found,
				Path:     reconstruct(cameFrom, current),
				Cost:     gScore[current],
				Explored: explored,
			}
		}

		if closed.Has(current) {
			continue
		}
		closed.Put(current)

		for _, off := range domain.Neighbours8 {
			next := current.Add(off)
			if !grid.InBounds(next) || grid.IsBlocked(next, lookup) {
				continue
			}
			if closed.Has(next) {
				continue
			}

			candidate := gScore[current] + current.StepCost(next)
			if known, seen := gScore[next]; seen && candidate >= known {
				continue
			}

			cameFrom[next] = current
			gScore[next] = candidate
			heap.Push(&open, &frontierItem{pos: next, priority: candidate + estimate(next)})

			explored++
			if o.Cap >= 0 && explored > o.Cap {
				return Result{Status: Truncated, Explored: explored}
			}
		}
	}

	return Result{Status: Unreachable, Explored: explored}
}

// reconstruct идет по обратным ссылкам от цели к старту и разворачивает путь.
func reconstruct(cameFrom map[domain.Position]domain.Position, current domain.Position) Path {
	path := Path{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
