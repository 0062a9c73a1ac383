package domain

import "time"

// DateLayout is the calendar-date format used for audit records.
const DateLayout = "2006-01-02"

// Log is an audit record appended on every mutating task operation.
// Records are never updated or removed.
type Log struct {
	TaskCode   int       `json:"task_code"`
	UserCode   int       `json:"user_code"`
	Status     Status    `json:"status"`
	ChangeDate time.Time `json:"change_date"`
}

// NewLog records that actor left task in its current status on the calendar day of at.
func NewLog(task *Task, actor *User, at time.Time) Log {
	y, m, d := at.Date()
	return Log{
		TaskCode:   task.Code,
		UserCode:   actor.Code,
		Status:     task.Status,
		ChangeDate: time.Date(y, m, d, 0, 0, 0, 0, at.Location()),
	}
}

// Date returns the change date in DateLayout form.
func (l Log) Date() string {
	return l.ChangeDate.Format(DateLayout)
}
