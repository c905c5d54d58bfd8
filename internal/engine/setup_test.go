package engine

import (
	"errors"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/battle"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/network"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type memStore struct {
	mu      sync.Mutex
	layouts map[string]domain.LayoutSnapshot
}

func newMemStore() *memStore {
	return &memStore{layouts: map[string]domain.LayoutSnapshot{}}
}

func (m *memStore) Save(name string, snap domain.LayoutSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts[name] = snap
	return nil
}

func (m *memStore) Load(name string) (domain.LayoutSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.layouts[name]
	if !ok {
		return domain.LayoutSnapshot{}, errors.New("missing")
	}
	return snap, nil
}

func (m *memStore) Names() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.layouts))
	for n := range m.layouts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// newTestInstance returns an instance without a ticker; tests call Tick.
func newTestInstance(t *testing.T, w, h int) (*Instance, *network.Broadcaster) {
	t.Helper()
	b, err := battle.New(1, domain.Dim{W: w, H: h}, 3)
	require.NoError(t, err)
	hub := network.NewBroadcaster()
	return NewInstance(b, pathfind.NewFinder(pathfind.Options{}), hub, newMemStore(), 0), hub
}

func ticks(i *Instance, n int) {
	for k := 0; k < n; k++ {
		i.Tick()
	}
}
