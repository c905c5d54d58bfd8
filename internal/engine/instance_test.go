package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func command(action domain.ActionType, payload any) domain.InternalCommand {
	raw, _ := json.Marshal(payload)
	return domain.InternalCommand{Action: action, Session: "test", Payload: raw}
}

func TestInstance_UnitWalksToDestination(t *testing.T) {
	inst, hub := newTestInstance(t, 8, 8)
	updates := hub.Register("watcher")
	hub.Subscribe("watcher", inst.ID)

	dest := domain.Position{X: 3, Y: 0}
	unit, err := inst.Battle.CreateUnit(domain.Position{X: 0, Y: 0}, domain.TeamPlayer, &dest)
	require.NoError(t, err)
	inst.scheduleUnits()

	// one tile every DefaultMoveTicks, first step on tick 1
	ticks(inst, 1+2*domain.DefaultMoveTicks)
	assert.Equal(t, dest, unit.Pos)
	assert.Equal(t, 3, len(updates), "one update per step")

	ticks(inst, domain.DefaultMoveTicks)
	assert.NotEqual(t, dest, unit.Wander.Destination, "new destination after arrival")

	var last api.ServerResponse
	for len(updates) > 0 {
		last = <-updates
	}
	assert.Equal(t, api.TypeUpdate, last.Type)
	require.NotEmpty(t, last.Logs)
	assert.Equal(t, "AI", last.Logs[len(last.Logs)-1].Type)
	assert.Empty(t, inst.Logs, "logs are flushed with the update")
}

func TestInstance_ReplansAroundNewObstacle(t *testing.T) {
	inst, _ := newTestInstance(t, 6, 3)

	dest := domain.Position{X: 4, Y: 1}
	unit, err := inst.Battle.CreateUnit(domain.Position{X: 0, Y: 1}, domain.TeamEnemy, &dest)
	require.NoError(t, err)
	inst.scheduleUnits()

	inst.Tick()
	require.Equal(t, domain.Position{X: 1, Y: 1}, unit.Pos)

	resp := inst.executeCommand(command(domain.ActionPlaceObstacle, api.PlaceObstaclePayload{X: 2, Y: 1}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)

	visited := map[domain.Position]bool{}
	prev := unit.Pos
	for k := 0; k < 12*domain.DefaultMoveTicks; k++ {
		inst.Tick()
		assert.True(t, prev == unit.Pos || prev.IsAdjacent(unit.Pos), "jump %s -> %s", prev, unit.Pos)
		prev = unit.Pos
		visited[unit.Pos] = true
	}
	assert.True(t, visited[dest], "destination reached around the obstacle")
	assert.False(t, visited[domain.Position{X: 2, Y: 1}], "never enters the obstacle")
}

func TestInstance_ExecuteCommand(t *testing.T) {
	inst, hub := newTestInstance(t, 5, 5)
	updates := hub.Register("s")
	hub.Subscribe("s", inst.ID)

	resp := inst.executeCommand(command(domain.ActionPlaceUnit, api.PlaceUnitPayload{X: 1, Y: 1, Team: 7}))
	assert.Equal(t, api.TypeError, resp.Type)
	assert.Contains(t, resp.Error, "validation failed")
	assert.Equal(t, "PLACE_UNIT", resp.Action)
	require.Len(t, inst.Logs, 1)
	assert.Equal(t, "ERROR", inst.Logs[0].Type)
	assert.Empty(t, updates, "failed commands publish nothing")

	resp = inst.executeCommand(command(domain.ActionPlaceUnit, api.PlaceUnitPayload{X: 1, Y: 1}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)
	require.NotNil(t, resp.Entity)
	assert.Equal(t, 1, inst.TurnManager.Len())

	update := <-updates
	assert.Equal(t, api.TypeUpdate, update.Type)
	require.NotNil(t, update.View)
	assert.Len(t, update.View.Entities, 1)
	assert.Len(t, update.Logs, 2)

	resp = inst.executeCommand(command(domain.ActionSnapshot, nil))
	require.Equal(t, api.TypeResult, resp.Type)
	assert.NotNil(t, resp.View)
	assert.Empty(t, updates, "snapshot is not broadcast")

	resp = inst.executeCommand(command(domain.ActionDestroy, api.EntityPayload{TargetID: resp.View.Entities[0].ID}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)
	assert.Equal(t, 0, inst.TurnManager.Len())

	resp = inst.executeCommand(domain.InternalCommand{Action: domain.ActionUnknown})
	assert.Equal(t, api.TypeError, resp.Type)
}

func TestInstance_LoadLayoutReplacesBattle(t *testing.T) {
	inst, _ := newTestInstance(t, 6, 6)

	resp := inst.executeCommand(command(domain.ActionPlaceUnit, api.PlaceUnitPayload{X: 2, Y: 2}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)
	resp = inst.executeCommand(command(domain.ActionSaveLayout, api.LayoutPayload{Name: "one_unit"}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)
	assert.Equal(t, []string{"one_unit"}, resp.Layouts)

	resp = inst.executeCommand(command(domain.ActionPlaceUnit, api.PlaceUnitPayload{X: 3, Y: 3}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)
	assert.Equal(t, 2, inst.TurnManager.Len())

	old := inst.Battle
	resp = inst.executeCommand(command(domain.ActionLoadLayout, api.LayoutPayload{Name: "one_unit"}))
	require.Equal(t, api.TypeResult, resp.Type, resp.Error)
	assert.NotSame(t, old, inst.Battle)
	assert.Equal(t, 1, inst.TurnManager.Len(), "queue rebuilt from the loaded layout")
	assert.Len(t, inst.Battle.Units(), 1)
}

func TestInstance_RunDoReplace(t *testing.T) {
	inst, _ := newTestInstance(t, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	go inst.Run(ctx)

	resp, err := inst.Do(ctx, command(domain.ActionInspect, api.PositionPayload{X: 1, Y: 1}))
	require.NoError(t, err)
	require.NotNil(t, resp.Cell)
	assert.False(t, resp.Cell.Blocked)

	next, err := battle.New(inst.ID, domain.Dim{W: 3, H: 3}, 9)
	require.NoError(t, err)
	_, err = next.CreateUnit(domain.Position{X: 0, Y: 0}, domain.TeamEnemy, nil)
	require.NoError(t, err)
	require.NoError(t, inst.Replace(ctx, next))

	st, err := inst.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Dim{W: 3, H: 3}, st.Grid)
	assert.Equal(t, 1, st.Units)
	assert.Len(t, st.Queue, 1)

	other, err := battle.New(inst.ID+1, domain.Dim{W: 3, H: 3}, 9)
	require.NoError(t, err)
	assert.Error(t, inst.Replace(ctx, other))

	cancel()
	select {
	case <-inst.done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	_, err = inst.Do(context.Background(), command(domain.ActionSnapshot, nil))
	assert.ErrorIs(t, err, ErrStopped)
}

func TestInstance_UnitsEngageHostiles(t *testing.T) {
	t.Run("Chase", func(t *testing.T) {
		inst, _ := newTestInstance(t, 8, 8)
		far := domain.Position{X: 0, Y: 7}
		hunter, err := inst.Battle.CreateUnit(domain.Position{X: 0, Y: 0}, domain.TeamPlayer, &far)
		require.NoError(t, err)
		prey, err := inst.Battle.CreateUnit(domain.Position{X: 4, Y: 0}, domain.TeamEnemy, &far)
		require.NoError(t, err)
		inst.scheduleUnits()

		inst.Tick()
		assert.Equal(t, domain.Position{X: 4, Y: 0}, hunter.Wander.Destination, "heads for the hostile it spotted")
		assert.Equal(t, domain.Position{X: 1, Y: 0}, hunter.Pos)
		assert.Equal(t, hunter.Pos, prey.Wander.Destination)
	})

	t.Run("Strike kills adjacent hostile", func(t *testing.T) {
		inst, hub := newTestInstance(t, 8, 8)
		updates := hub.Register("watcher")
		hub.Subscribe("watcher", inst.ID)

		attacker, err := inst.Battle.CreateUnit(domain.Position{X: 0, Y: 0}, domain.TeamPlayer, nil)
		require.NoError(t, err)
		victim, err := inst.Battle.CreateUnit(domain.Position{X: 1, Y: 0}, domain.TeamEnemy, nil)
		require.NoError(t, err)
		inst.scheduleUnits()

		inst.Tick()
		assert.False(t, victim.IsAlive())
		assert.Equal(t, 1, attacker.UnitInfo.Kills)
		assert.Equal(t, domain.Position{X: 0, Y: 0}, attacker.Pos, "a strike replaces the step")
		assert.False(t, inst.Battle.Tilemap.Contains(victim.ID, victim.Pos))
		assert.False(t, inst.TurnManager.Has(victim.ID))

		require.Len(t, updates, 1)
		u := <-updates
		require.NotEmpty(t, u.Logs)
		assert.Equal(t, "COMBAT", u.Logs[len(u.Logs)-1].Type)
	})
}
