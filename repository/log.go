package repository

import (
	"context"

	"github.com/fastygo/taskapp/domain"
)

// LogRepository is the append-only audit trail of task changes.
type LogRepository interface {
	Save(ctx context.Context, entry domain.Log) error
	// DeleteByTaskCode is not supported and always returns domain.ErrNotImplemented.
	DeleteByTaskCode(ctx context.Context, taskCode int) error
}
