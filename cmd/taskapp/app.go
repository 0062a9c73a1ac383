package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskapp/internal/config"
	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
	"github.com/fastygo/taskapp/internal/infrastructure/monitor"
	"github.com/fastygo/taskapp/pkg/logger"
	"github.com/fastygo/taskapp/repository"
	boltRepo "github.com/fastygo/taskapp/repository/bolt"
	"github.com/fastygo/taskapp/repository/flatfile"
)

func bootstrap(envFile string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, zapLogger.With(zap.String("app", cfg.AppName)), nil
}

// stores bundles the repositories of the configured backend.
type stores struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	logs   repository.LogRepository
	probes []monitor.Probe
	close  func() error
}

// Close releases the backend, if it holds any resources.
func (s *stores) Close() error {
	return s.close()
}

func openStores(cfg config.StorageConfig, log *zap.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		store, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt database %s: %w", cfg.BoltPath, err)
		}
		users := boltRepo.NewUserRepository(store)
		log.Debug("using bolt storage", zap.String("path", cfg.BoltPath))
		return &stores{
			users:  users,
			tasks:  boltRepo.NewTaskRepository(store, users),
			logs:   boltRepo.NewLogRepository(store),
			probes: []monitor.Probe{monitor.BoltProbe(store)},
			close:  store.Close,
		}, nil
	default:
		users := flatfile.NewUserRepository(cfg.UsersFile)
		log.Debug("using csv storage",
			zap.String("users", cfg.UsersFile),
			zap.String("tasks", cfg.TasksFile),
			zap.String("logs", cfg.LogsFile))
		return &stores{
			users: users,
			tasks: flatfile.NewTaskRepository(cfg.TasksFile, users),
			logs:  flatfile.NewLogRepository(cfg.LogsFile),
			probes: []monitor.Probe{
				monitor.FileProbe("users", cfg.UsersFile),
				monitor.FileProbe("tasks", cfg.TasksFile),
			},
			close: func() error { return nil },
		}, nil
	}
}
