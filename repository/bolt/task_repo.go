package bolt

import (
	"context"
	"encoding/json"
	"errors"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
	"github.com/fastygo/taskapp/repository"
)

// TaskRepository keeps tasks in the tasks bucket. Like the flat file it
// allows duplicate codes and resolves lookups to the most recently appended match.
type TaskRepository struct {
	store *boltdb.Store
	users repository.UserRepository
}

// NewTaskRepository creates a Bolt-backed task repository.
func NewTaskRepository(store *boltdb.Store, users repository.UserRepository) *TaskRepository {
	return &TaskRepository{store: store, users: users}
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(records))
	if len(records) == 0 {
		return tasks, nil
	}

	users, err := r.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[int]domain.User, len(users))
	for _, u := range users {
		byCode[u.Code] = u
	}

	for _, rec := range records {
		owner := &domain.User{Code: rec.RepUserCode}
		if u, ok := byCode[rec.RepUserCode]; ok {
			owner = &u
		}
		task, err := rec.task(owner)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeCorrupt, "malformed task record", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByCode(ctx context.Context, code int) (*domain.Task, error) {
	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	var found *taskRecord
	for i := range records {
		if records[i].Code == code {
			found = &records[i]
		}
	}
	if found == nil {
		return nil, domain.ErrTaskNotFound
	}

	owner, err := r.users.FindByCode(ctx, found.RepUserCode)
	if errors.Is(err, domain.ErrUserNotFound) {
		owner = &domain.User{Code: found.RepUserCode}
	} else if err != nil {
		return nil, err
	}
	task, err := found.task(owner)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeCorrupt, "malformed task record", err)
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.store.Update(func(tx *bbolt.Tx) error {
		return boltdb.Append(tx.Bucket([]byte(boltdb.BucketTasks)), newTaskRecord(task))
	})
	if err != nil {
		return unavailable("save task", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(newTaskRecord(task))
	if err != nil {
		return err
	}

	err = r.store.Update(func(tx *bbolt.Tx) error {
		var matched [][]byte
		err := each(tx, boltdb.BucketTasks, func(k []byte, rec taskRecord) error {
			if rec.Code == task.Code {
				matched = append(matched, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		b := tx.Bucket([]byte(boltdb.BucketTasks))
		for _, k := range matched {
			if err := b.Put(k, payload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("update task", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, code int) error {
	return domain.ErrNotImplemented
}

func (r *TaskRepository) records(ctx context.Context) ([]taskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []taskRecord
	err := r.store.View(func(tx *bbolt.Tx) error {
		return each(tx, boltdb.BucketTasks, func(_ []byte, rec taskRecord) error {
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("read tasks", err)
	}
	return records, nil
}
