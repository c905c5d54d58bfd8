package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/config"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine/handlers"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/infrastructure/storage"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/scenario"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/server"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/version"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		configPath   string
		seed         int64
		scenarioPath string
		watch        bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.Int64Var(&seed, "seed", 0, "Battle seed (0 keeps the config value; 0 there means random)")
	flag.StringVar(&scenarioPath, "scenario", "", "Scenario file or directory to load instead of generated battles")
	flag.BoolVar(&watch, "watch", false, "Reload scenario files when they change")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	if seed != 0 {
		cfg.Battle.Seed = seed
	}
	if scenarioPath != "" {
		cfg.Scenario.Path = scenarioPath
	}
	if watch {
		cfg.Scenario.Watch = true
	}

	logger.InitWith(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	logger.Log.Info("Starting Dwarf and Blade battle server...")
	logger.Log.Info(version.Current().String())

	// 2. Хранилище раскладок
	var layouts handlers.LayoutStore
	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage.AppName)
		if err != nil {
			logger.Log.WithError(err).Warn("Layout storage unavailable, SAVE_LAYOUT/LOAD_LAYOUT disabled")
		} else {
			layouts = store
		}
	}

	// 3. Карты: из сценариев или сгенерированные
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := engine.NewService(cfg, layouts)
	if cfg.Scenario.Path != "" {
		scenarios, err := scenario.LoadPath(cfg.Scenario.Path)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load scenarios")
		}
		for _, sc := range scenarios {
			if err := service.ApplyScenario(ctx, sc); err != nil {
				logger.Log.WithError(err).WithField("scenario", sc.Source).Fatal("Failed to apply scenario")
			}
		}
	}
	if len(service.BattleIDs()) == 0 {
		if err := service.CreateDefaultBattles(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to create battles")
		}
	}
	service.Start(ctx)

	if cfg.Scenario.Path != "" && cfg.Scenario.Watch {
		go watchScenarios(ctx, service, cfg.Scenario.Path)
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 4. Запуск сервера
	srv := server.New(service, cfg.Server.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown")
	}

	// Сохраняем все карты, пока циклы еще работают
	if cfg.Storage.SaveOnExit && layouts != nil {
		if err := service.SaveAll(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("Failed to save battles")
		}
	}

	service.Stop()
	logger.Log.Info("Done.")
}

// watchScenarios reapplies a scenario file whenever it changes.
func watchScenarios(ctx context.Context, service *engine.BattleService, path string) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}

	w, err := scenario.NewWatcher(dir)
	if err != nil {
		logger.Log.WithError(err).Error("Scenario watcher failed to start")
		return
	}
	defer w.Close()

	log := logger.For("scenario_watch").WithField("dir", dir)
	log.Info("Watching scenarios")

	for {
		select {
		case <-ctx.Done():
			return
		case file, ok := <-w.Events:
			if !ok {
				return
			}
			// каталог может содержать чужие файлы, если следим за одним сценарием
			if dir != path && filepath.Clean(file) != filepath.Clean(path) {
				continue
			}
			if err := service.ReloadScenario(ctx, file); err != nil {
				log.WithError(err).WithField("file", file).Warn("Scenario reload failed")
				continue
			}
			log.WithField("file", file).Info("Scenario reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("Watcher error")
		}
	}
}
