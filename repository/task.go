package repository

import (
	"context"

	"github.com/fastygo/taskapp/domain"
)

// TaskRepository persists tasks. Save appends without checking for duplicate
// codes; Update rewrites every stored record, substituting those whose code matches.
type TaskRepository interface {
	FindAll(ctx context.Context) ([]domain.Task, error)
	FindByCode(ctx context.Context, code int) (*domain.Task, error)
	Save(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	// Delete is not supported and always returns domain.ErrNotImplemented.
	Delete(ctx context.Context, code int) error
}
