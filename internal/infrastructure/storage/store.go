package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/quasilyte/gdata/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	layoutsObject = "layouts"
	metaObject    = "meta"
	indexProperty = "index"
)

var ErrLayoutNotFound = errors.New("layout not found")

// IndexEntry describes one saved layout without decoding it.
type IndexEntry struct {
	Name    string     `yaml:"name"`
	MapID   uint16     `yaml:"mapId"`
	Dim     domain.Dim `yaml:"dim"`
	Records int        `yaml:"records"`
	SavedAt time.Time  `yaml:"savedAt"`
}

// Store keeps layouts in the per-user application data directory.
// Layout bodies are BMLY blobs; a YAML index lists them.
type Store struct {
	mu sync.Mutex
	m  *gdata.Manager
}

// Open prepares the data directory for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open layout store %q: %w", appName, err)
	}
	logger.For("storage").WithField("app", appName).Info("Layout store opened")
	return &Store{m: m}, nil
}

// Save writes snap under name, replacing an older layout with that name.
func (s *Store) Save(name string, snap domain.LayoutSnapshot) error {
	var buf bytes.Buffer
	if err := WriteLayout(&buf, snap); err != nil {
		return fmt.Errorf("encode layout %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.m.SaveObjectProp(layoutsObject, name, buf.Bytes()); err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}

	index, err := s.loadIndex()
	if err != nil {
		return err
	}
	entry := IndexEntry{
		Name:    name,
		MapID:   snap.MapID,
		Dim:     snap.Dim,
		Records: len(snap.Records),
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
	replaced := false
	for i := range index {
		if index[i].Name == name {
			index[i] = entry
			replaced = true
		}
	}
	if !replaced {
		index = append(index, entry)
	}
	if err := s.saveIndex(index); err != nil {
		return err
	}

	logger.For("storage").WithFields(logrus.Fields{
		"layout":  name,
		"map":     snap.MapID,
		"records": len(snap.Records),
		"bytes":   buf.Len(),
	}).Info("Layout saved")
	return nil
}

// Load reads the layout stored under name.
func (s *Store) Load(name string) (domain.LayoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(layoutsObject, name) {
		return domain.LayoutSnapshot{}, fmt.Errorf("layout %q: %w", name, ErrLayoutNotFound)
	}
	data, err := s.m.LoadObjectProp(layoutsObject, name)
	if err != nil {
		return domain.LayoutSnapshot{}, fmt.Errorf("load layout %q: %w", name, err)
	}
	snap, err := ReadLayout(bytes.NewReader(data))
	if err != nil {
		return domain.LayoutSnapshot{}, fmt.Errorf("decode layout %q: %w", name, err)
	}
	return snap, nil
}

// List returns the index sorted by name.
func (s *Store) List() ([]IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadIndex()
}

// Names returns the saved layout names, sorted.
func (s *Store) Names() ([]string, error) {
	index, err := s.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(index))
	for i, e := range index {
		names[i] = e.Name
	}
	return names, nil
}

func (s *Store) loadIndex() ([]IndexEntry, error) {
	if !s.m.ObjectPropExists(metaObject, indexProperty) {
		return nil, nil
	}
	data, err := s.m.LoadObjectProp(metaObject, indexProperty)
	if err != nil {
		return nil, fmt.Errorf("load layout index: %w", err)
	}
	var index []IndexEntry
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse layout index: %w", err)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Name < index[j].Name })
	return index, nil
}

func (s *Store) saveIndex(index []IndexEntry) error {
	sort.Slice(index, func(i, j int) bool { return index[i].Name < index[j].Name })
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode layout index: %w", err)
	}
	if err := s.m.SaveObjectProp(metaObject, indexProperty, data); err != nil {
		return fmt.Errorf("save layout index: %w", err)
	}
	return nil
}
