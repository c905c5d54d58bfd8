// Package config loads the server configuration: YAML file first, then
// environment overrides, then command-line flags applied by cmd/server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/pathfind"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Battle      BattleConfig      `yaml:"battle"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Storage     StorageConfig     `yaml:"storage"`
	Scenario    ScenarioConfig    `yaml:"scenario"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// BattleConfig describes the maps created at startup when no scenario is given.
type BattleConfig struct {
	Count  int   `yaml:"count"`
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"` // 0 = random

	// ScenicPercent - процент клеток со случайными декорациями.
	ScenicPercent float64 `yaml:"scenicPercent"`
	ScenicCost    int     `yaml:"scenicCost"`

	// MoveInterval - длительность одного тика симуляции.
	MoveInterval time.Duration `yaml:"moveInterval"`
}

type PathfindingConfig struct {
	Cap       int    `yaml:"cap"`       // 0 = default, -1 = unlimited
	Heuristic string `yaml:"heuristic"` // none | euclidean | octile | chebyshev | manhattan
}

type StorageConfig struct {
	Enabled    bool   `yaml:"enabled"`
	AppName    string `yaml:"appName"`
	SaveOnExit bool   `yaml:"saveOnExit"`
}

type ScenarioConfig struct {
	Path  string `yaml:"path"` // file or directory of .yaml scenarios
	Watch bool   `yaml:"watch"`
}

// Default возвращает конфиг по умолчанию.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Battle: BattleConfig{
			Count:         1,
			Width:         32,
			Height:        32,
			ScenicPercent: 10,
			ScenicCost:    domain.SceneryPathCost,
			MoveInterval:  100 * time.Millisecond,
		},
		Pathfinding: PathfindingConfig{Cap: pathfind.DefaultCap},
		Storage: StorageConfig{
			Enabled:    true,
			AppName:    "dwarf_and_blade",
			SaveOnExit: true,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BM_PORT, LOG_LEVEL and LOG_FORMAT.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("BM_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}

	b := c.Battle
	if b.Count < 0 {
		errs = append(errs, fmt.Errorf("battle.count %d is negative", b.Count))
	}
	if !(domain.Dim{W: b.Width, H: b.Height}).Valid() {
		errs = append(errs, fmt.Errorf("battle size %dx%d: %w", b.Width, b.Height, domain.ErrInvalidDimension))
	}
	if b.ScenicPercent < 0 || b.ScenicPercent > 100 {
		errs = append(errs, fmt.Errorf("battle.scenicPercent %v outside [0,100]", b.ScenicPercent))
	}
	if b.MoveInterval <= 0 {
		errs = append(errs, fmt.Errorf("battle.moveInterval %v must be positive", b.MoveInterval))
	}

	if _, err := pathfind.ParseHeuristic(c.Pathfinding.Heuristic); err != nil {
		errs = append(errs, fmt.Errorf("pathfinding.heuristic: %w", err))
	}

	if c.Storage.Enabled && c.Storage.AppName == "" {
		errs = append(errs, errors.New("storage.appName is required when storage is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// FinderOptions converts the pathfinding section. Call after Validate.
func (c Config) FinderOptions() pathfind.Options {
	h, _ := pathfind.ParseHeuristic(c.Pathfinding.Heuristic)
	return pathfind.Options{Cap: c.Pathfinding.Cap, Heuristic: h}
}

// Dim is the default battle size.
func (c Config) Dim() domain.Dim {
	return domain.Dim{W: c.Battle.Width, H: c.Battle.Height}
}
