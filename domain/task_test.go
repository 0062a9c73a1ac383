package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	accepted := map[[2]Status]bool{
		{StatusUnstarted, StatusInProgress}: true,
		{StatusInProgress, StatusUnstarted}: true,
	}

	statuses := []Status{StatusUnstarted, StatusInProgress, StatusDone}
	for _, cur := range statuses {
		for _, next := range statuses {
			t.Run(fmt.Sprintf("%d->%d", cur, next), func(t *testing.T) {
				err := ValidateTransition(cur, next)
				if accepted[[2]Status{cur, next}] {
					assert.NoError(t, err)
					return
				}
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.True(t, IsDomainError(err, ErrCodeInvalid))
			})
		}
	}
}

func TestValidateTransition_OutOfRange(t *testing.T) {
	assert.ErrorIs(t, ValidateTransition(StatusUnstarted, Status(3)), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateTransition(Status(-1), StatusInProgress), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateTransition(Status(7), StatusUnstarted), ErrInvalidTransition)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"0", StatusUnstarted, false},
		{"1", StatusInProgress, false},
		{"2", StatusDone, false},
		{"3", 0, true},
		{"-1", 0, true},
		{"x", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTaskName(t *testing.T) {
	assert.NoError(t, ValidateTaskName(""))
	assert.NoError(t, ValidateTaskName("0123456789"))
	assert.NoError(t, ValidateTaskName("タスク名は十文字以内"))
	assert.ErrorIs(t, ValidateTaskName("0123456789a"), ErrTaskNameTooLong)
}

func TestTask_ResponsibleLabel(t *testing.T) {
	me := &User{Code: 1, Name: "Suzuki"}
	other := &User{Code: 2, Name: "Tanaka"}

	task := &Task{Code: 10, Name: "demo", RepUser: other}
	assert.Equal(t, "Tanaka", task.ResponsibleLabel(me))
	assert.Equal(t, "you", task.ResponsibleLabel(other))

	task.RepUser = &User{Code: 9}
	assert.Equal(t, "user 9", task.ResponsibleLabel(me))

	task.RepUser = nil
	assert.Equal(t, "nobody", task.ResponsibleLabel(me))
	assert.Equal(t, 0, task.RepUserCode())
}

func TestNewLog_TruncatesToDate(t *testing.T) {
	at := time.Date(2026, 10, 19, 17, 45, 3, 0, time.UTC)
	task := &Task{Code: 10, Status: StatusInProgress}
	entry := NewLog(task, &User{Code: 2}, at)

	assert.Equal(t, 10, entry.TaskCode)
	assert.Equal(t, 2, entry.UserCode)
	assert.Equal(t, StatusInProgress, entry.Status)
	assert.Equal(t, "2026-10-19", entry.Date())
	assert.Equal(t, 0, entry.ChangeDate.Hour())
}

func TestIsStorageFailure(t *testing.T) {
	assert.True(t, IsStorageFailure(WrapError(ErrCodeUnavailable, "read tasks", fmt.Errorf("boom"))))
	assert.True(t, IsStorageFailure(fmt.Errorf("wrapped: %w", NewError(ErrCodeCorrupt, "bad line"))))
	assert.False(t, IsStorageFailure(ErrTaskNotFound))
	assert.False(t, IsStorageFailure(nil))
}
