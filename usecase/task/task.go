package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/pkg/logger"
	"github.com/fastygo/taskapp/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logs   repository.LogRepository
	now    func() time.Time
	logger *zap.Logger

	// mu serialises mutations; the stores read and rewrite whole files.
	mu sync.Mutex
}

// Option customises a UseCase.
type Option func(*UseCase)

// WithClock overrides the source of the audit date.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func New(tasks repository.TaskRepository, users repository.UserRepository, logs repository.LogRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		users:  users,
		logs:   logs,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return uc.tasks.FindAll(ctx)
}

// CreateTask registers a new UNSTARTED task and records it in the audit log.
//
// repUserCode must name an existing user, but the stored responsible user is
// the actor who creates the task.
func (uc *UseCase) CreateTask(ctx context.Context, code int, name string, repUserCode int, actor *domain.User) (*domain.Task, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.ValidateTaskName(name); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, err := uc.users.FindByCode(ctx, repUserCode); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownUserCode
		}
		return nil, err
	}

	task := &domain.Task{
		Code:    code,
		Name:    name,
		Status:  domain.StatusUnstarted,
		RepUser: actor,
	}
	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	if err := uc.appendLog(ctx, task, actor); err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.Int("task_code", task.Code),
		zap.Int("user_code", actor.Code))
	return task, nil
}

// ChangeStatus moves a task to next if the transition is allowed. The actor
// becomes the responsible user.
func (uc *UseCase) ChangeStatus(ctx context.Context, code int, next domain.Status, actor *domain.User) (*domain.Task, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.tasks.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrUnknownTaskCode
		}
		return nil, err
	}
	if err := domain.ValidateTransition(current.Status, next); err != nil {
		return nil, err
	}

	updated := &domain.Task{
		Code:    current.Code,
		Name:    current.Name,
		Status:  next,
		RepUser: actor,
	}
	if err := uc.tasks.Update(ctx, updated); err != nil {
		return nil, err
	}
	if err := uc.appendLog(ctx, updated, actor); err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task status changed",
		zap.Int("task_code", updated.Code),
		zap.Stringer("from", current.Status),
		zap.Stringer("to", updated.Status),
		zap.Int("user_code", actor.Code))
	return updated, nil
}

// DeleteTask is not supported.
func (uc *UseCase) DeleteTask(ctx context.Context, code int) error {
	return domain.ErrNotImplemented
}

// appendLog is not atomic with the preceding task write; a failure here
// leaves the task change in place.
func (uc *UseCase) appendLog(ctx context.Context, task *domain.Task, actor *domain.User) error {
	entry := domain.NewLog(task, actor, uc.now())
	if err := uc.logs.Save(ctx, entry); err != nil {
		logger.WithRequestID(ctx, uc.logger).Error("audit log write failed after task write",
			zap.Int("task_code", task.Code),
			zap.Stringer("status", task.Status),
			zap.Error(err))
		return err
	}
	return nil
}
