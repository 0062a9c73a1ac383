package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskapp/domain"
)

type userRecord struct {
	Code     int    `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type taskRecord struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Status      int    `json:"status"`
	RepUserCode int    `json:"rep_user_code"`
}

type logRecord struct {
	TaskCode   int    `json:"task_code"`
	UserCode   int    `json:"user_code"`
	Status     int    `json:"status"`
	ChangeDate string `json:"change_date"`
}

func newTaskRecord(task *domain.Task) taskRecord {
	return taskRecord{
		Code:        task.Code,
		Name:        task.Name,
		Status:      int(task.Status),
		RepUserCode: task.RepUserCode(),
	}
}

func newLogRecord(entry domain.Log) logRecord {
	return logRecord{
		TaskCode:   entry.TaskCode,
		UserCode:   entry.UserCode,
		Status:     int(entry.Status),
		ChangeDate: entry.Date(),
	}
}

func (r taskRecord) task(owner *domain.User) (domain.Task, error) {
	status := domain.Status(r.Status)
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("status %d is out of range", r.Status)
	}
	return domain.Task{Code: r.Code, Name: r.Name, Status: status, RepUser: owner}, nil
}

func (r userRecord) user() domain.User {
	return domain.User{Code: r.Code, Name: r.Name, Email: r.Email, Password: r.Password}
}

func (r logRecord) entry() (domain.Log, error) {
	date, err := time.ParseInLocation(domain.DateLayout, r.ChangeDate, time.Local)
	if err != nil {
		return domain.Log{}, err
	}
	return domain.Log{
		TaskCode:   r.TaskCode,
		UserCode:   r.UserCode,
		Status:     domain.Status(r.Status),
		ChangeDate: date,
	}, nil
}

// each decodes every record of a bucket in key order.
func each[T any](tx *bbolt.Tx, bucket string, fn func(key []byte, rec T) error) error {
	return tx.Bucket([]byte(bucket)).ForEach(func(k, v []byte) error {
		var rec T
		if err := json.Unmarshal(v, &rec); err != nil {
			return corrupt(bucket, k, err)
		}
		return fn(k, rec)
	})
}

func unavailable(op string, err error) error {
	if domain.IsDomainError(err, domain.ErrCodeCorrupt) {
		return err
	}
	return domain.WrapError(domain.ErrCodeUnavailable, op, err)
}

func corrupt(bucket string, key []byte, err error) error {
	return domain.WrapError(domain.ErrCodeCorrupt, fmt.Sprintf("%s/%x: malformed record", bucket, key), err)
}
