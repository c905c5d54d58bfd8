package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/config"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers/actions"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/network"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/scenario"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/utils"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownBattle = errors.New("unknown battle")
	ErrUnknownAction = errors.New("unknown action")
	ErrBattleExists  = errors.New("battle already exists")
)

// BattleService владеет всеми инстансами карт и общим хабом рассылки.
type BattleService struct {
	Hub     *network.Broadcaster
	Finder  *pathfind.Finder
	Layouts handlers.LayoutStore // nil, если хранилище выключено

	cfg config.BattleConfig

	mu        sync.RWMutex
	instances map[int]*Instance
	runCtx    context.Context // nil until Start
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewService builds an empty service. Pass a nil layouts to disable
// SAVE_LAYOUT/LOAD_LAYOUT.
func NewService(cfg config.Config, layouts handlers.LayoutStore) *BattleService {
	return &BattleService{
		Hub:       network.NewBroadcaster(),
		Finder:    pathfind.NewFinder(cfg.FinderOptions()),
		Layouts:   layouts,
		cfg:       cfg.Battle,
		instances: make(map[int]*Instance),
	}
}

// CreateBattle generates a battle with the configured scenery scatter.
func (s *BattleService) CreateBattle(id int, dim domain.Dim, seed int64) (*Instance, error) {
	b, err := battle.New(id, dim, seed)
	if err != nil {
		return nil, err
	}
	placed := b.Distribute(s.cfg.ScenicPercent, nil, s.cfg.ScenicCost)
	logger.Log.WithFields(logrus.Fields{
		"battle":  id,
		"size":    dim,
		"seed":    seed,
		"scenery": placed,
	}).Info("Battle generated")
	return s.AddBattle(b)
}

// CreateDefaultBattles creates battles 1..Count from the config.
func (s *BattleService) CreateDefaultBattles() error {
	seed := utils.ResolveSeed(s.cfg.Seed)
	dim := domain.Dim{W: s.cfg.Width, H: s.cfg.Height}
	for id := 1; id <= s.cfg.Count; id++ {
		if _, err := s.CreateBattle(id, dim, seed+int64(id-1)); err != nil {
			return err
		}
	}
	return nil
}

// AddBattle registers b and starts its loop when the service is running.
func (s *BattleService) AddBattle(b *battle.Battle) (*Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[b.ID]; ok {
		return nil, fmt.Errorf("battle %d: %w", b.ID, ErrBattleExists)
	}
	inst := NewInstance(b, s.Finder, s.Hub, s.Layouts, s.cfg.MoveInterval)
	s.instances[b.ID] = inst
	if s.runCtx != nil {
		s.launch(inst)
	}
	return inst, nil
}

// launch is called with s.mu held.
func (s *BattleService) launch(inst *Instance) {
	ctx := s.runCtx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		inst.Run(ctx)
	}()
}

// ApplyScenario builds the scenario and swaps it in for the battle with the
// same id, or adds it.
func (s *BattleService) ApplyScenario(ctx context.Context, sc *scenario.Scenario) error {
	b, err := sc.Build()
	if err != nil {
		return err
	}
	if inst, ok := s.Instance(b.ID); ok {
		if err := s.replace(ctx, inst, b); err != nil {
			return err
		}
	} else if _, err := s.AddBattle(b); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"scenario": sc.Name,
		"battle":   b.ID,
		"units":    len(sc.Units),
	}).Info("Scenario applied")
	return nil
}

// replace идет через цикл инстанса только после Start: до этого ops никто
// не читает, и карта подменяется на месте.
func (s *BattleService) replace(ctx context.Context, inst *Instance, b *battle.Battle) error {
	s.mu.Lock()
	if s.runCtx == nil {
		defer s.mu.Unlock()
		inst.replace(b)
		return nil
	}
	s.mu.Unlock()
	return inst.Replace(ctx, b)
}

// ReloadScenario is the watcher callback: reread one file and apply it.
func (s *BattleService) ReloadScenario(ctx context.Context, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	return s.ApplyScenario(ctx, sc)
}

func (s *BattleService) Instance(id int) (*Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	return inst, ok
}

// BattleIDs returns ids in ascending order.
func (s *BattleService) BattleIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ProcessCommand принимает команду от внешнего мира (WebSocket) и
// подписывает сессию на карту команды.
func (s *BattleService) ProcessCommand(ctx context.Context, session string, cmd api.ClientCommand) api.ServerResponse {
	fail := func(err error) api.ServerResponse {
		return api.ServerResponse{
			Type:   api.TypeError,
			Battle: cmd.Battle,
			Action: cmd.Action,
			Error:  err.Error(),
		}
	}

	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		return fail(fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action))
	}
	inst, ok := s.Instance(cmd.Battle)
	if !ok {
		return fail(fmt.Errorf("%w: %d", ErrUnknownBattle, cmd.Battle))
	}

	s.Hub.Subscribe(session, cmd.Battle)

	resp, err := inst.Do(ctx, domain.InternalCommand{
		Action:  action,
		Session: session,
		Payload: cmd.Payload,
	})
	if err != nil {
		return fail(err)
	}
	return resp
}

// Start запускает циклы всех инстансов.
func (s *BattleService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runCtx != nil {
		return
	}
	s.runCtx, s.cancel = context.WithCancel(ctx)
	for _, inst := range s.instances {
		s.launch(inst)
	}
	logger.Log.WithField("battles", len(s.instances)).Info("Battle service started")
}

// Stop останавливает циклы и ждет их завершения.
func (s *BattleService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

// SaveAll stores every battle under its default layout name. Call before Stop.
func (s *BattleService) SaveAll(ctx context.Context) error {
	if s.Layouts == nil {
		return handlers.ErrNoStorage
	}
	var errs []error
	for _, id := range s.BattleIDs() {
		inst, _ := s.Instance(id)
		payload := fmt.Sprintf(`{"name":%q}`, actions.DefaultLayoutName(id))
		resp, err := inst.Do(ctx, domain.InternalCommand{
			Action:  domain.ActionSaveLayout,
			Session: "shutdown",
			Payload: []byte(payload),
		})
		if err == nil && resp.Type == api.TypeError {
			err = errors.New(resp.Error)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("save battle %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Statuses collects a debug summary of every battle.
func (s *BattleService) Statuses(ctx context.Context) ([]Status, error) {
	ids := s.BattleIDs()
	out := make([]Status, 0, len(ids))
	for _, id := range ids {
		inst, _ := s.Instance(id)
		st, err := inst.Status(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
