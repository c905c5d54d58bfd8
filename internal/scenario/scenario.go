// Package scenario loads battle layouts written by hand in YAML.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"gopkg.in/yaml.v3"
)

// Scenario describes one battle map.
//
//	name: river_crossing
//	battle: 1
//	width: 24
//	height: 16
//	seed: 7
//	scenery: {percent: 15, cost: 0, sprites: [tree_1, rocks]}
//	obstacles:
//	  - {x: 10, y: 0, h: 12}
//	units:
//	  - {x: 0, y: 3, team: 0, destination: {x: 23, y: 3}}
type Scenario struct {
	Name      string        `yaml:"name"`
	Battle    int           `yaml:"battle"`
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	Seed      int64         `yaml:"seed"`
	Scenery   SceneryDef    `yaml:"scenery"`
	Obstacles []ObstacleDef `yaml:"obstacles"`
	Units     []UnitDef     `yaml:"units"`

	// Source is the file the scenario was read from.
	Source string `yaml:"-"`
}

type SceneryDef struct {
	Percent float64  `yaml:"percent"`
	Cost    int      `yaml:"cost"`
	Sprites []string `yaml:"sprites"`
}

// ObstacleDef places a W x H block of obstacles with its top-left at X,Y.
// Cost nil means impassable.
type ObstacleDef struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	W      int    `yaml:"w"`
	H      int    `yaml:"h"`
	Cost   *int   `yaml:"cost"`
	Sprite string `yaml:"sprite"`
}

type UnitDef struct {
	X           int              `yaml:"x"`
	Y           int              `yaml:"y"`
	Team        int              `yaml:"team"`
	Destination *domain.Position `yaml:"destination"`
}

func (o ObstacleDef) size() (int, int) {
	w, h := o.W, o.H
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

func (o ObstacleDef) cost() int {
	if o.Cost == nil {
		return domain.Impassable
	}
	return *o.Cost
}

// Parse decodes and validates one scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scenario file. The name defaults to the file name.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadPath loads a single file, or every .yaml/.yml file of a directory in
// name order.
func LoadPath(path string) ([]*Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		s, err := Load(path)
		if err != nil {
			return nil, err
		}
		return []*Scenario{s}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("scenario dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsScenarioFile(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)

	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// IsScenarioFile matches the .yaml and .yml extensions.
func IsScenarioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (s *Scenario) Dim() domain.Dim {
	return domain.Dim{W: s.Width, H: s.Height}
}

// Validate checks every placement against the map size.
func (s *Scenario) Validate() error {
	var errs []error

	dim := s.Dim()
	if !dim.Valid() {
		return fmt.Errorf("scenario %q size %dx%d: %w", s.Name, s.Width, s.Height, domain.ErrInvalidDimension)
	}
	if s.Battle < 0 || s.Battle > 0xFFFF {
		errs = append(errs, fmt.Errorf("battle id %d outside [0,65535]", s.Battle))
	}
	if s.Scenery.Percent < 0 || s.Scenery.Percent > 100 {
		errs = append(errs, fmt.Errorf("scenery percent %v outside [0,100]", s.Scenery.Percent))
	}

	for i, o := range s.Obstacles {
		w, h := o.size()
		corner := domain.Position{X: o.X + w - 1, Y: o.Y + h - 1}
		if !dim.Contains(domain.Position{X: o.X, Y: o.Y}) || !dim.Contains(corner) {
			errs = append(errs, fmt.Errorf("obstacle %d at (%d,%d) size %dx%d: %w", i, o.X, o.Y, w, h, domain.ErrOutOfBounds))
		}
		if o.cost() < domain.Impassable {
			errs = append(errs, fmt.Errorf("obstacle %d cost %d below %d", i, o.cost(), domain.Impassable))
		}
	}

	for i, u := range s.Units {
		if !dim.Contains(domain.Position{X: u.X, Y: u.Y}) {
			errs = append(errs, fmt.Errorf("unit %d at (%d,%d): %w", i, u.X, u.Y, domain.ErrOutOfBounds))
		}
		if u.Destination != nil && !dim.Contains(*u.Destination) {
			errs = append(errs, fmt.Errorf("unit %d destination %s: %w", i, *u.Destination, domain.ErrOutOfBounds))
		}
		if u.Team != domain.TeamPlayer && u.Team != domain.TeamEnemy {
			errs = append(errs, fmt.Errorf("unit %d team %d: want %d or %d", i, u.Team, domain.TeamPlayer, domain.TeamEnemy))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// Build creates the battle: terrain, scattered scenery, obstacles, then units.
func (s *Scenario) Build() (*battle.Battle, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b, err := battle.New(s.Battle, s.Dim(), s.Seed)
	if err != nil {
		return nil, err
	}
	if s.Scenery.Percent > 0 {
		b.Distribute(s.Scenery.Percent, s.Scenery.Sprites, s.Scenery.Cost)
	}

	for _, o := range s.Obstacles {
		w, h := o.size()
		for y := o.Y; y < o.Y+h; y++ {
			for x := o.X; x < o.X+w; x++ {
				if _, err := b.CreateObstacle(domain.Position{X: x, Y: y}, o.cost(), o.Sprite); err != nil {
					return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
				}
			}
		}
	}

	for _, u := range s.Units {
		if _, err := b.CreateUnit(domain.Position{X: u.X, Y: u.Y}, u.Team, u.Destination); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return b, nil
}
