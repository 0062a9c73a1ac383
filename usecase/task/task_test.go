package task

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/repository/flatfile"
)

const (
	usersCSV = "Code,Name,Email,Password\n1,Suzuki,suzuki@example.com,pass1\n2,Tanaka,tanaka@example.com,pass2\n"
	emptyCSV = "Code,Name,Status,Rep_User_Code\n"
	logsHead = "Code,Rep_User_Code,Status,Change_Date\n"
)

var today = time.Date(2026, 10, 19, 12, 30, 0, 0, time.Local)

type env struct {
	dir string
	uc  *UseCase
}

func newEnv(t *testing.T, tasksCSV string) env {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), []byte(usersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(tasksCSV), 0o644))

	users := flatfile.NewUserRepository(filepath.Join(dir, "users.csv"))
	tasks := flatfile.NewTaskRepository(filepath.Join(dir, "tasks.csv"), users)
	logs := flatfile.NewLogRepository(filepath.Join(dir, "logs.csv"))

	return env{
		dir: dir,
		uc:  New(tasks, users, logs, nil, WithClock(func() time.Time { return today })),
	}
}

func (e env) file(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func user(code int) *domain.User {
	return &domain.User{Code: code}
}

func TestCreateTask(t *testing.T) {
	e := newEnv(t, emptyCSV)

	got, err := e.uc.CreateTask(context.Background(), 10, "demo", 1, user(1))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnstarted, got.Status)
	assert.Equal(t, 1, got.RepUserCode())

	assert.Equal(t, emptyCSV+"10,demo,0,1\n", e.file(t, "tasks.csv"))
	assert.Equal(t, logsHead+"10,1,0,2026-10-19\n", e.file(t, "logs.csv"))
}

func TestCreateTask_ResponsibleIsActor(t *testing.T) {
	e := newEnv(t, emptyCSV)

	_, err := e.uc.CreateTask(context.Background(), 10, "demo", 2, user(1))
	require.NoError(t, err)

	assert.Equal(t, emptyCSV+"10,demo,0,1\n", e.file(t, "tasks.csv"))
}

func TestCreateTask_UnknownUserWritesNothing(t *testing.T) {
	e := newEnv(t, emptyCSV)

	_, err := e.uc.CreateTask(context.Background(), 10, "demo", 99, user(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownUserCode)
	assert.Equal(t, "please enter an existing user code", err.Error())

	assert.Equal(t, emptyCSV, e.file(t, "tasks.csv"))
	assert.Empty(t, e.file(t, "logs.csv"))
}

func TestCreateTask_NameTooLong(t *testing.T) {
	e := newEnv(t, emptyCSV)

	_, err := e.uc.CreateTask(context.Background(), 10, "much too long", 1, user(1))
	assert.ErrorIs(t, err, domain.ErrTaskNameTooLong)
	assert.Equal(t, emptyCSV, e.file(t, "tasks.csv"))
}

func TestCreateTask_RequiresActor(t *testing.T) {
	e := newEnv(t, emptyCSV)

	_, err := e.uc.CreateTask(context.Background(), 10, "demo", 1, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangeStatus_StartTask(t *testing.T) {
	e := newEnv(t, emptyCSV+"10,demo,0,1\n11,other,0,1\n")

	got, err := e.uc.ChangeStatus(context.Background(), 10, domain.StatusInProgress, user(2))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, 2, got.RepUserCode())

	assert.Equal(t, emptyCSV+"10,demo,1,2\n11,other,0,1\n", e.file(t, "tasks.csv"))
	assert.Equal(t, logsHead+"10,2,1,2026-10-19\n", e.file(t, "logs.csv"))
}

func TestChangeStatus_DoneIsRejected(t *testing.T) {
	initial := emptyCSV + "10,demo,1,1\n"
	e := newEnv(t, initial)

	_, err := e.uc.ChangeStatus(context.Background(), 10, domain.StatusDone, user(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "status must advance exactly one step from the previous status", err.Error())

	assert.Equal(t, initial, e.file(t, "tasks.csv"))
	assert.Empty(t, e.file(t, "logs.csv"))
}

func TestChangeStatus_TransitionTable(t *testing.T) {
	statuses := []domain.Status{domain.StatusUnstarted, domain.StatusInProgress, domain.StatusDone}
	for _, cur := range statuses {
		for _, next := range statuses {
			t.Run(fmt.Sprintf("%d->%d", cur, next), func(t *testing.T) {
				initial := fmt.Sprintf("%s10,demo,%d,1\n", emptyCSV, cur)
				e := newEnv(t, initial)

				_, err := e.uc.ChangeStatus(context.Background(), 10, next, user(1))

				allowed := (cur == domain.StatusUnstarted && next == domain.StatusInProgress) ||
					(cur == domain.StatusInProgress && next == domain.StatusUnstarted)
				if allowed {
					require.NoError(t, err)
					assert.Equal(t, fmt.Sprintf("%s10,demo,%d,1\n", emptyCSV, next), e.file(t, "tasks.csv"))
					assert.Equal(t, fmt.Sprintf("%s10,1,%d,2026-10-19\n", logsHead, next), e.file(t, "logs.csv"))
					return
				}
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				assert.Equal(t, initial, e.file(t, "tasks.csv"))
				assert.Empty(t, e.file(t, "logs.csv"))
			})
		}
	}
}

func TestChangeStatus_UnknownTask(t *testing.T) {
	e := newEnv(t, emptyCSV+"10,demo,0,1\n")

	_, err := e.uc.ChangeStatus(context.Background(), 42, domain.StatusInProgress, user(1))
	assert.ErrorIs(t, err, domain.ErrUnknownTaskCode)
	assert.Equal(t, "please enter an existing task code", err.Error())
}

func TestChangeStatus_LogFailureKeepsTaskUpdate(t *testing.T) {
	e := newEnv(t, emptyCSV+"10,demo,0,1\n")
	require.NoError(t, os.Mkdir(filepath.Join(e.dir, "logs.csv"), 0o755))

	_, err := e.uc.ChangeStatus(context.Background(), 10, domain.StatusInProgress, user(2))
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))

	assert.Equal(t, emptyCSV+"10,demo,1,2\n", e.file(t, "tasks.csv"))
}

func TestListTasks_MissingFileIsAnError(t *testing.T) {
	e := newEnv(t, emptyCSV)
	require.NoError(t, os.Remove(filepath.Join(e.dir, "tasks.csv")))

	_, err := e.uc.ListTasks(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestDeleteTask(t *testing.T) {
	initial := emptyCSV + "10,demo,0,1\n"
	e := newEnv(t, initial)

	assert.ErrorIs(t, e.uc.DeleteTask(context.Background(), 10), domain.ErrNotImplemented)
	assert.Equal(t, initial, e.file(t, "tasks.csv"))
}
