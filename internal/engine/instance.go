package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/network"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/systems"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrStopped - цикл инстанса уже завершен.
var ErrStopped = errors.New("battle instance stopped")

// InstanceCommand обертка: команда и канал для ответа (nil = без ответа)
type InstanceCommand struct {
	Cmd   domain.InternalCommand
	Reply chan api.ServerResponse
}

// Instance представляет собой одну запущенную боевую карту.
// Только горутина Run трогает Battle и TurnManager.
type Instance struct {
	ID     int
	Battle *battle.Battle

	TurnManager *TurnManager
	Finder      *pathfind.Finder
	Layouts     handlers.LayoutStore
	Hub         *network.Broadcaster

	// Каналы коммуникации
	CommandChan chan InstanceCommand
	ops         chan func()

	// Interval - длительность одного тика ИИ.
	Interval    time.Duration
	CurrentTick int

	Logs []api.LogEntry // Логи с прошлой рассылки

	handlers map[domain.ActionType]handlers.HandlerFunc
	done     chan struct{}
}

func NewInstance(b *battle.Battle, finder *pathfind.Finder, hub *network.Broadcaster, layouts handlers.LayoutStore, interval time.Duration) *Instance {
	i := &Instance{
		ID:          b.ID,
		Battle:      b,
		TurnManager: NewTurnManager(),
		Finder:      finder,
		Layouts:     layouts,
		Hub:         hub,
		CommandChan: make(chan InstanceCommand, 100),
		ops:         make(chan func()),
		Interval:    interval,
		Logs:        []api.LogEntry{},
		handlers:    actionHandlers(),
		done:        make(chan struct{}),
	}
	i.scheduleUnits()
	return i
}

func (i *Instance) log() *logrus.Entry {
	return logger.Log.WithField("instance_id", i.ID)
}

// Run запускает цикл ЭТОГО инстанса до отмены ctx.
func (i *Instance) Run(ctx context.Context) {
	defer close(i.done)
	i.log().WithFields(logrus.Fields{
		"size":  i.Battle.Dim(),
		"units": i.TurnManager.Len(),
	}).Info("Instance loop started")

	var tick <-chan time.Time
	if i.Interval > 0 {
		ticker := time.NewTicker(i.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			i.log().Info("Instance loop stopped")
			return

		case wrapper := <-i.CommandChan:
			resp := i.executeCommand(wrapper.Cmd)
			if wrapper.Reply != nil {
				wrapper.Reply <- resp
			}

		case fn := <-i.ops:
			fn()

		case <-tick:
			i.Tick()
		}
	}
}

// Do отправляет команду в цикл и ждет ответ.
func (i *Instance) Do(ctx context.Context, cmd domain.InternalCommand) (api.ServerResponse, error) {
	reply := make(chan api.ServerResponse, 1)
	select {
	case i.CommandChan <- InstanceCommand{Cmd: cmd, Reply: reply}:
	case <-ctx.Done():
		return api.ServerResponse{}, ctx.Err()
	case <-i.done:
		return api.ServerResponse{}, ErrStopped
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return api.ServerResponse{}, ctx.Err()
	case <-i.done:
		return api.ServerResponse{}, ErrStopped
	}
}

// exec runs fn on the loop goroutine and waits for it.
func (i *Instance) exec(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case i.ops <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-i.done:
		return ErrStopped
	}
	<-finished
	return nil
}

// Replace подменяет карту (перезагрузка сценария). Тик сохраняется.
func (i *Instance) Replace(ctx context.Context, b *battle.Battle) error {
	if b.ID != i.ID {
		return fmt.Errorf("replace battle %d with %d: ids differ", i.ID, b.ID)
	}
	return i.exec(ctx, func() {
		i.replace(b)
		i.publish()
	})
}

func (i *Instance) replace(b *battle.Battle) {
	i.Battle = b
	i.TurnManager.Reset()
	i.scheduleUnits()
	i.AddLog(fmt.Sprintf("Battle %d replaced: %s, %d units", b.ID, b.Dim(), i.TurnManager.Len()), "INFO")
}

// Status - сводка для /debug.
type Status struct {
	ID       int        `json:"id"`
	Tick     int        `json:"tick"`
	Seed     int64      `json:"seed"`
	Grid     domain.Dim `json:"grid"`
	Entities int        `json:"entities"`
	Units    int        `json:"units"`
	Watchers int        `json:"watchers"`
	Queue    []TurnView `json:"queue"`
}

func (i *Instance) Status(ctx context.Context) (Status, error) {
	var st Status
	err := i.exec(ctx, func() {
		st = Status{
			ID:       i.ID,
			Tick:     i.CurrentTick,
			Seed:     i.Battle.Seed,
			Grid:     i.Battle.Dim(),
			Entities: i.Battle.Registry.Len(),
			Units:    len(i.Battle.Units()),
			Watchers: i.Hub.Watchers(i.ID),
			Queue:    i.TurnManager.DebugDump(),
		}
	})
	return st, err
}

// scheduleUnits puts every living unit of the current battle in the queue.
func (i *Instance) scheduleUnits() {
	for _, u := range i.Battle.Units() {
		if u.Wander.NextMoveTick < i.CurrentTick {
			u.Wander.NextMoveTick = i.CurrentTick
		}
		i.TurnManager.AddEntity(u)
	}
}

// Tick advances the simulation by one tick and steps every unit that is due.
func (i *Instance) Tick() {
	i.CurrentTick++
	changed := false

	for {
		item := i.TurnManager.PeekNext()
		if item == nil || item.Priority > i.CurrentTick {
			break
		}
		unit := item.Value

		// снят с карты в обход очереди
		if !unit.IsAlive() || i.Battle.Registry.Get(unit.ID) != unit {
			i.TurnManager.RemoveEntity(unit.ID)
			continue
		}

		if i.stepUnit(unit) {
			changed = true
		}

		// каждый обработанный юнит уходит в будущее, иначе цикл не закончится
		w := unit.Wander
		if w.NextMoveTick <= i.CurrentTick {
			w.Wait(i.CurrentTick, max(w.MoveTicks, 1))
		}
		i.TurnManager.UpdatePriority(unit.ID, w.NextMoveTick)
	}

	if changed {
		i.publish()
	}
}

// stepUnit engages a hostile in sight or applies one wander decision.
// Reports whether the map changed.
func (i *Instance) stepUnit(unit *domain.Entity) bool {
	b := i.Battle

	eng := systems.Engage(b.Tilemap, b.Registry, unit, domain.SightRadius)
	switch eng.Action {
	case systems.EngageStrike:
		return i.strike(unit, eng.Target)
	case systems.EngageChase:
		if unit.Wander.Destination != eng.Target.Pos {
			if _, err := b.SetDestination(unit.ID, eng.Target.Pos); err != nil {
				i.log().WithError(err).WithField("unit", unit.ID).Warn("chase failed")
			} else {
				i.AddLog(fmt.Sprintf("%s spots %s at %s", unit.ID, eng.Target.ID, eng.Target.Pos), "AI")
			}
		}
	}

	dec := systems.StepUnit(i.Finder, b.Tilemap, b.Registry, unit, i.CurrentTick)

	switch dec.Action {
	case systems.WanderStep:
		if err := b.MoveEntity(unit.ID, dec.To); err != nil {
			i.log().WithError(err).WithField("unit", unit.ID).Warn("wander step rejected")
			return false
		}
		return true

	case systems.WanderArrived, systems.WanderStuck:
		from := unit.Wander.Destination
		dest, ok := systems.PickDestination(b.Rng(), b.Tilemap, b.Registry, unit)
		if !ok {
			return false
		}
		if _, err := b.SetDestination(unit.ID, dest); err != nil {
			i.log().WithError(err).WithField("unit", unit.ID).Warn("retarget failed")
			return false
		}
		verb := "reached"
		if dec.Action == systems.WanderStuck {
			verb = "gave up on"
		}
		i.AddLog(fmt.Sprintf("%s %s %s, heading to %s", unit.ID, verb, from, dest), "AI")
		return true
	}
	return false
}

// strike бьет соседа; убитый юнит снимается с карты.
func (i *Instance) strike(unit, target *domain.Entity) bool {
	if !systems.ApplyStrike(unit, target) {
		i.AddLog(fmt.Sprintf("%s hits %s (%d hp left)", unit.ID, target.ID, target.Damageable.HP), "COMBAT")
		return true
	}
	// hp уже 0, DestroyUnit вернул бы ErrDead
	i.Battle.Tilemap.Remove(target.ID, target.Pos)
	if target.Wander != nil {
		target.Wander.Route = nil
	}
	i.TurnManager.RemoveEntity(target.ID)
	i.AddLog(fmt.Sprintf("%s kills %s", unit.ID, target.ID), "COMBAT")
	return true
}

// executeCommand выполняет команду в контексте карты
func (i *Instance) executeCommand(cmd domain.InternalCommand) api.ServerResponse {
	resp := api.ServerResponse{
		Type:   api.TypeResult,
		Battle: i.ID,
		Action: cmd.Action.String(),
	}

	handler, ok := i.handlers[cmd.Action]
	if !ok {
		resp.Type = api.TypeError
		resp.Error = fmt.Sprintf("unknown action %s", cmd.Action)
		resp.Tick = i.CurrentTick
		return resp
	}

	ctx := handlers.Context{
		Battle:  i.Battle,
		Finder:  i.Finder,
		Turns:   i.TurnManager,
		Layouts: i.Layouts,
		Tick:    i.CurrentTick,
		Session: cmd.Session,
		Replace: i.replace,
	}

	result, err := handler(ctx, cmd.Payload)
	resp.Tick = i.CurrentTick
	if err != nil {
		i.log().WithError(err).WithFields(logrus.Fields{
			"action":  cmd.Action,
			"session": cmd.Session,
		}).Debug("command failed")
		i.AddLog(fmt.Sprintf("%s: %v", cmd.Action, err), "ERROR")
		resp.Type = api.TypeError
		resp.Error = err.Error()
		return resp
	}

	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = "INFO"
		}
		i.AddLog(result.Msg, msgType)
	}

	resp.View = result.View
	resp.Path = result.Path
	resp.Cell = result.Cell
	resp.Entity = result.Entity
	resp.Layouts = result.Layouts

	if cmd.Action.Mutates() {
		i.publish()
	}
	return resp
}

// publish рассылает снимок карты всем, кто на нее смотрит, и очищает логи.
func (i *Instance) publish() {
	defer func() { i.Logs = []api.LogEntry{} }()
	if i.Hub == nil || i.Hub.Watchers(i.ID) == 0 {
		return
	}

	logsCopy := make([]api.LogEntry, len(i.Logs))
	copy(logsCopy, i.Logs)

	i.Hub.Publish(i.ID, api.ServerResponse{
		Type:   api.TypeUpdate,
		Battle: i.ID,
		Tick:   i.CurrentTick,
		View:   i.Battle.View(i.CurrentTick),
		Logs:   logsCopy,
	})
}
