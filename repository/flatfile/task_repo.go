package flatfile

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/repository"
)

// TaskRepository stores tasks in a `Code,Name,Status,Rep_User_Code` file and
// resolves responsible users through a UserRepository.
type TaskRepository struct {
	table table
	users repository.UserRepository
}

// NewTaskRepository creates a file-backed task repository.
func NewTaskRepository(path string, users repository.UserRepository) *TaskRepository {
	return &TaskRepository{
		table: newTable(path, tasksHeader),
		users: users,
	}
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

type taskRow struct {
	code     int
	name     string
	status   domain.Status
	userCode int
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(rows))
	if len(rows) == 0 {
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

	for _, row := range rows {
		owner := &domain.User{Code: row.userCode}
		if u, ok := byCode[row.userCode]; ok {
			owner = &u
		}
		tasks = append(tasks, row.task(owner))
	}
	return tasks, nil
}

func (r *TaskRepository) FindByCode(ctx context.Context, code int) (*domain.Task, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	var found *taskRow
	for i := range rows {
		if rows[i].code == code {
			found = &rows[i]
		}
	}
	if found == nil {
		return nil, domain.ErrTaskNotFound
	}

	owner, err := r.users.FindByCode(ctx, found.userCode)
	if errors.Is(err, domain.ErrUserNotFound) {
		owner = &domain.User{Code: found.userCode}
	} else if err != nil {
		return nil, err
	}
	task := found.task(owner)
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	return r.table.append(ctx, formatTask(task), false)
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	replacement := formatTask(task)
	if err := checkFields(replacement); err != nil {
		return err
	}

	records, err := r.table.read(ctx)
	if err != nil {
		return err
	}
	for i, rec := range records {
		row, err := r.parse(rec)
		if err != nil {
			return err
		}
		if row.code == task.Code {
			records[i].raw = strings.Join(replacement, separator)
		}
	}
	return r.table.rewrite(ctx, records)
}

func (r *TaskRepository) Delete(ctx context.Context, code int) error {
	return domain.ErrNotImplemented
}

func (r *TaskRepository) rows(ctx context.Context) ([]taskRow, error) {
	records, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]taskRow, 0, len(records))
	for _, rec := range records {
		row, err := r.parse(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *TaskRepository) parse(rec record) (taskRow, error) {
	code, err := rec.intField(r.table, 0)
	if err != nil {
		return taskRow{}, err
	}
	status, err := domain.ParseStatus(strings.TrimSpace(rec.fields[2]))
	if err != nil {
		return taskRow{}, r.table.corrupt(rec.line, err)
	}
	userCode, err := rec.intField(r.table, 3)
	if err != nil {
		return taskRow{}, err
	}
	return taskRow{code: code, name: rec.fields[1], status: status, userCode: userCode}, nil
}

func (row taskRow) task(owner *domain.User) domain.Task {
	return domain.Task{
		Code:    row.code,
		Name:    row.name,
		Status:  row.status,
		RepUser: owner,
	}
}

func formatTask(task *domain.Task) []string {
	return []string{
		strconv.Itoa(task.Code),
		task.Name,
		strconv.Itoa(int(task.Status)),
		strconv.Itoa(task.RepUserCode()),
	}
}
