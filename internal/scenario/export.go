package scenario

import (
	"fmt"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"gopkg.in/yaml.v3"
)

// FromLayout turns a saved layout into an editable scenario. Scenery is
// written as single-tile obstacles so the map comes back exactly; the
// random scatter is left off.
func FromLayout(name string, snap domain.LayoutSnapshot) *Scenario {
	s := &Scenario{
		Name:   name,
		Battle: int(snap.MapID),
		Width:  snap.Dim.W,
		Height: snap.Dim.H,
		Seed:   snap.Seed,
	}
	for _, rec := range snap.Records {
		switch rec.Kind {
		case domain.KindUnit:
			dest := rec.Destination
			s.Units = append(s.Units, UnitDef{X: rec.Pos.X, Y: rec.Pos.Y, Team: rec.Team, Destination: &dest})
		case domain.KindObstacle, domain.KindScenery:
			o := ObstacleDef{X: rec.Pos.X, Y: rec.Pos.Y, Sprite: rec.Sprite}
			if rec.Collidable && rec.Cost != domain.Impassable {
				cost := rec.Cost
				o.Cost = &cost
			}
			if !rec.Collidable {
				// non-collidable decoration: advisory zero cost
				zero := 0
				o.Cost = &zero
			}
			s.Obstacles = append(s.Obstacles, o)
		}
	}
	return s
}

// Marshal encodes the scenario as YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scenario %q: %w", s.Name, err)
	}
	return out, nil
}
