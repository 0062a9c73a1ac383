package bolt

import (
	"context"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
	"github.com/fastygo/taskapp/repository"
)

// LogRepository appends audit records to the logs bucket.
type LogRepository struct {
	store *boltdb.Store
}

// NewLogRepository creates a Bolt-backed audit log.
func NewLogRepository(store *boltdb.Store) *LogRepository {
	return &LogRepository{store: store}
}

var _ repository.LogRepository = (*LogRepository)(nil)

func (r *LogRepository) Save(ctx context.Context, entry domain.Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.store.Update(func(tx *bbolt.Tx) error {
		return boltdb.Append(tx.Bucket([]byte(boltdb.BucketLogs)), newLogRecord(entry))
	})
	if err != nil {
		return unavailable("save log", err)
	}
	return nil
}

func (r *LogRepository) DeleteByTaskCode(ctx context.Context, taskCode int) error {
	return domain.ErrNotImplemented
}

// Entries returns the trail in append order.
func (r *LogRepository) Entries(ctx context.Context) ([]domain.Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := []domain.Log{}
	err := r.store.View(func(tx *bbolt.Tx) error {
		return each(tx, boltdb.BucketLogs, func(k []byte, rec logRecord) error {
			entry, err := rec.entry()
			if err != nil {
				return corrupt(boltdb.BucketLogs, k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("read logs", err)
	}
	return entries, nil
}
