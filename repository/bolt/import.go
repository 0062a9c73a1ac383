package bolt

import (
	"context"
	"fmt"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
)

// Load fills an empty store with users, tasks and audit entries in the
// given order. All three buckets are written in one transaction, so a
// failure leaves the store empty.
func Load(ctx context.Context, store *boltdb.Store, users []domain.User, tasks []domain.Task, logs []domain.Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := store.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{boltdb.BucketUsers, boltdb.BucketTasks, boltdb.BucketLogs} {
			if n := tx.Bucket([]byte(name)).Stats().KeyN; n > 0 {
				return domain.NewError(domain.ErrCodeConflict,
					fmt.Sprintf("%s already holds %d %s records", store.Path(), n, name))
			}
		}

		b := tx.Bucket([]byte(boltdb.BucketUsers))
		for _, u := range users {
			rec := userRecord{Code: u.Code, Name: u.Name, Email: u.Email, Password: u.Password}
			if err := boltdb.Append(b, rec); err != nil {
				return err
			}
		}

		b = tx.Bucket([]byte(boltdb.BucketTasks))
		for i := range tasks {
			if !tasks[i].Status.Valid() {
				return domain.NewError(domain.ErrCodeInvalid,
					fmt.Sprintf("task %d has status %d out of range", tasks[i].Code, int(tasks[i].Status)))
			}
			if err := boltdb.Append(b, newTaskRecord(&tasks[i])); err != nil {
				return err
			}
		}

		b = tx.Bucket([]byte(boltdb.BucketLogs))
		for _, entry := range logs {
			if !entry.Status.Valid() {
				return domain.NewError(domain.ErrCodeInvalid,
					fmt.Sprintf("log entry for task %d has status %d out of range", entry.TaskCode, int(entry.Status)))
			}
			if err := boltdb.Append(b, newLogRecord(entry)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeConflict) || domain.IsDomainError(err, domain.ErrCodeInvalid) {
			return err
		}
		return unavailable("load store", err)
	}
	return nil
}
