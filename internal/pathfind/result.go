package pathfind

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

// Status tags the outcome of a search.
type Status uint8

const (
	Unreachable Status = iota
	Found
	Truncated
)

func (s Status) String() string {
	switch s {
	case Found:
		return "FOUND"
	case Truncated:
		return "TRUNCATED"
	default:
		return "UNREACHABLE"
	}
}

// MarshalText lets the status travel as a string in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Both failures are a domain.ErrNotFound for callers that do not care why.
var (
	ErrUnreachable = fmt.Errorf("goal unreachable: %w", domain.ErrNotFound)
	ErrTruncated   = fmt.Errorf("exploration cap exceeded: %w", domain.ErrNotFound)
)

// Path is an ordered run of grid-adjacent tiles, start and goal inclusive.
// A single-tile path means "already there".
type Path []domain.Position

// Steps is the number of moves, len-1.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Cost sums the step costs along the path.
func (p Path) Cost() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i-1].StepCost(p[i])
	}
	return total
}

// Start and End return the first and last tile; ok is false on an empty path.
func (p Path) Start() (domain.Position, bool) {
	if len(p) == 0 {
		return domain.Position{}, false
	}
	return p[0], true
}

func (p Path) End() (domain.Position, bool) {
	if len(p) == 0 {
		return domain.Position{}, false
	}
	return p[len(p)-1], true
}

// Reversed returns a reversed copy.
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, pos := range p {
		out[len(p)-1-i] = pos
	}
	return out
}

// Connected reports whether every consecutive pair is grid-adjacent.
func (p Path) Connected() bool {
	for i := 1; i < len(p); i++ {
		if !p[i-1].IsAdjacent(p[i]) {
			return false
		}
	}
	return true
}

// Result is the tagged outcome of Search.
type Result struct {
	Status   Status  `json:"status"`
	Path     Path    `json:"path,omitempty"`
	Cost     float64 `json:"cost"`
	Explored int     `json:"explored"` // relaxed edges
}

// Err maps the status to nil, ErrUnreachable or ErrTruncated.
func (r Result) Err() error {
	switch r.Status {
	case Found:
		return nil
	case Truncated:
		return ErrTruncated
	default:
		return ErrUnreachable
	}
}
