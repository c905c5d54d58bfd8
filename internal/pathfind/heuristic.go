package pathfind

import (
	"fmt"
	"math"
	"strings"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

// Heuristic estimates the remaining cost from a tile to a goal. A nil
// heuristic is the zero estimate, which turns the search into Dijkstra.
type Heuristic func(from, to domain.Position) float64

// Euclidean is the straight-line distance. Admissible on the 8-connected grid.
func Euclidean(from, to domain.Position) float64 {
	return from.DistanceTo(to)
}

// Octile is the exact cost on an empty 8-connected grid with diagonal √2.
func Octile(from, to domain.Position) float64 {
	dx := math.Abs(float64(from.X - to.X))
	dy := math.Abs(float64(from.Y - to.Y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// Chebyshev counts king moves.
func Chebyshev(from, to domain.Position) float64 {
	dx := math.Abs(float64(from.X - to.X))
	dy := math.Abs(float64(from.Y - to.Y))
	return math.Max(dx, dy)
}

// Manhattan overestimates diagonal moves, so routes found with it are not
// guaranteed to be shortest. Useful when speed matters more than optimality.
func Manhattan(from, to domain.Position) float64 {
	return math.Abs(float64(from.X-to.X)) + math.Abs(float64(from.Y-to.Y))
}

var heuristics = map[string]Heuristic{
	"":          nil,
	"none":      nil,
	"dijkstra":  nil,
	"euclidean": Euclidean,
	"octile":    Octile,
	"chebyshev": Chebyshev,
	"manhattan": Manhattan,
}

// ParseHeuristic maps a config name to a heuristic. "", "none" and
// "dijkstra" select the zero heuristic.
func ParseHeuristic(name string) (Heuristic, error) {
	h, ok := heuristics[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
	return h, nil
}

// towards returns the estimate to the nearest of several goals.
func towards(h Heuristic, goals []domain.Position) func(domain.Position) float64 {
	if h == nil {
		return func(domain.Position) float64 { return 0 }
	}
	if len(goals) == 1 {
		g := goals[0]
		return func(p domain.Position) float64 { return h(p, g) }
	}
	return func(p domain.Position) float64 {
		best := math.Inf(1)
		for _, g := range goals {
			if v := h(p, g); v < best {
				best = v
			}
		}
		return best
	}
}
