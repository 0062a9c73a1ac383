package services

import (
	"context"
	"errors"
		"io/fs"

	"go.uber.org/zap"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
	boltRepo "github.com/fastygo/taskapp/repository/bolt"
)

// UserSource lists users in storage order.
type UserSource interface {
	FindAll(ctx context.Context) ([]domain.User, error)
}

// TaskSource lists tasks in storage order.
type TaskSource interface {
	FindAll(ctx context.Context) ([]domain.Task, error)
}

// LogSource lists audit entries in storage order.
type LogSource interface {
	Entries(ctx context.Context) ([]domain.Log, error)
}

// ImportSummary counts the records copied per collection.
type ImportSummary struct {
	Users int
	Tasks int
	Logs  int
}

// Importer copies every record from another backend into a bolt store,
// keeping storage order so duplicate codes resolve the same way.
type Importer struct {
	store  *boltdb.Store
	logger *zap.Logger
}

func NewImporter(store *boltdb.Store, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: store, logger: logger}
}

// Import reads every source first and then writes all records in a single
// transaction. It refuses a store that already holds records. A missing log
// file is allowed and imports no entries.
func (im *Importer) Import(ctx context.Context, users UserSource, tasks TaskSource, logs LogSource) (ImportSummary, error) {
	var summary ImportSummary

	userList, err := users.FindAll(ctx)
	if err != nil {
		return summary, err
	}
	taskList, err := tasks.FindAll(ctx)
	if err != nil {
		return summary, err
	}
	var entries []domain.Log
	if logs != nil {
		entries, err = logs.Entries(ctx)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			im.logger.Warn("no audit log to import", zap.Error(err))
		case err != nil:
			return summary, err
		}
	}

	if err := boltRepo.Load(ctx, im.store, userList, taskList, entries); err != nil {
		return summary, err
	}
	summary = ImportSummary{Users: len(userList), Tasks: len(taskList), Logs: len(entries)}

	im.logger.Info("import completed",
		zap.String("path", im.store.Path()),
		zap.Int("users", summary.Users),
		zap.Int("tasks", summary.Tasks),
		zap.Int("logs", summary.Logs))
	return summary, nil
}
