package systems

import (
	"testing"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngage(t *testing.T) {
	tests := []struct {
		name   string
		hostX  int
		team   int
		wall   bool
		radius float64
		want   EngageAction
	}{
		{"Hostile in sight", 4, domain.TeamEnemy, false, 6, EngageChase},
		{"Hostile adjacent", 1, domain.TeamEnemy, false, 6, EngageStrike},
		{"Wall blocks sight", 4, domain.TeamEnemy, true, 6, EngageNone},
		{"Too far", 4, domain.TeamEnemy, false, 2, EngageNone},
		{"Same team", 4, domain.TeamPlayer, false, 6, EngageNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, reg := createTestMap(t, 6, 3)
			if tt.wall {
				placeWall(t, tm, reg, 2, 0)
			}
			unit := placeUnit(t, tm, reg, 0, 0, domain.TeamPlayer)
			other := placeUnit(t, tm, reg, tt.hostX, 0, tt.team)

			dec := Engage(tm, reg, unit, tt.radius)
			assert.Equal(t, tt.want, dec.Action)
			if tt.want != EngageNone {
				assert.Same(t, other, dec.Target)
			}
		})
	}

	t.Run("Nearest first", func(t *testing.T) {
		tm, reg := createTestMap(t, 6, 3)
		unit := placeUnit(t, tm, reg, 0, 0, domain.TeamPlayer)
		placeUnit(t, tm, reg, 5, 0, domain.TeamEnemy)
		near := placeUnit(t, tm, reg, 2, 2, domain.TeamEnemy)

		dec := Engage(tm, reg, unit, 6)
		assert.Equal(t, EngageChase, dec.Action)
		assert.Same(t, near, dec.Target)
	})

	t.Run("Dead hostiles are ignored", func(t *testing.T) {
		tm, reg := createTestMap(t, 6, 3)
		unit := placeUnit(t, tm, reg, 0, 0, domain.TeamPlayer)
		dead := placeUnit(t, tm, reg, 1, 0, domain.TeamEnemy)
		dead.Damageable.HP = 0

		assert.Equal(t, EngageNone, Engage(tm, reg, unit, 6).Action)
	})
}

func TestApplyStrike(t *testing.T) {
	tm, reg := createTestMap(t, 3, 3)
	attacker := placeUnit(t, tm, reg, 0, 0, domain.TeamPlayer)
	attacker.UnitInfo = &domain.UnitInfoComponent{Damage: 4}
	target := placeUnit(t, tm, reg, 1, 0, domain.TeamEnemy)

	assert.False(t, ApplyStrike(attacker, target))
	assert.Equal(t, domain.UnitMaxHP-4, target.Damageable.HP)
	assert.Zero(t, attacker.UnitInfo.Kills)

	attacker.UnitInfo.Damage = 100
	require.True(t, ApplyStrike(attacker, target), "lethal strike")
	assert.Equal(t, 0, target.Damageable.HP)
	assert.Equal(t, 1, attacker.UnitInfo.Kills)

	assert.False(t, ApplyStrike(attacker, target), "corpse")
	assert.Equal(t, 1, attacker.UnitInfo.Kills)
}
