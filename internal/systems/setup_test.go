package systems

import (
	"os"
	"testing"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/tilemap"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// createTestMap builds an empty w x h map. Use placeWall to add obstacles.
func createTestMap(t *testing.T, w, h int) (*tilemap.Tilemap, *domain.Registry) {
	t.Helper()
	tm, err := tilemap.New(w, h)
	if err != nil {
		t.Fatalf("tilemap.New(%d, %d): %v", w, h, err)
	}
	return tm, domain.NewRegistry(1)
}

func placeWall(t *testing.T, tm *tilemap.Tilemap, reg *domain.Registry, x, y int) *domain.Entity {
	t.Helper()
	e := &domain.Entity{
		ID:         reg.NextID(domain.KindObstacle),
		Kind:       domain.KindObstacle,
		Pos:        domain.Position{X: x, Y: y},
		Collidable: &domain.CollidableComponent{Cost: domain.Impassable},
	}
	reg.Register(e)
	if err := tm.Add(e.ID, e.Pos); err != nil {
		t.Fatalf("add wall: %v", err)
	}
	return e
}

func placeUnit(t *testing.T, tm *tilemap.Tilemap, reg *domain.Registry, x, y, team int) *domain.Entity {
	t.Helper()
	e := &domain.Entity{
		ID:         reg.NextID(domain.KindUnit),
		Kind:       domain.KindUnit,
		Pos:        domain.Position{X: x, Y: y},
		Collidable: &domain.CollidableComponent{Cost: domain.UnitPathCost},
		Team:       &domain.TeamComponent{ID: team},
		Damageable: &domain.DamageableComponent{HP: domain.UnitMaxHP, MaxHP: domain.UnitMaxHP},
		Wander: &domain.WanderComponent{
			Destination: tm.Dim().Corner(),
			MoveTicks:   domain.DefaultMoveTicks,
		},
	}
	reg.Register(e)
	if err := tm.Add(e.ID, e.Pos); err != nil {
		t.Fatalf("add unit: %v", err)
	}
	return e
}
