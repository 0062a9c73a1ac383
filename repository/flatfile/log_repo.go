package flatfile

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/repository"
)

// LogRepository appends audit records to a `Code,Rep_User_Code,Status,Change_Date` file.
// The file is created with its header on the first write.
type LogRepository struct {
	table table
}

// NewLogRepository creates a file-backed audit log.
func NewLogRepository(path string) *LogRepository {
	return &LogRepository{table: newTable(path, logsHeader)}
}

var _ repository.LogRepository = (*LogRepository)(nil)

func (r *LogRepository) Save(ctx context.Context, entry domain.Log) error {
	return r.table.append(ctx, []string{
		strconv.Itoa(entry.TaskCode),
		strconv.Itoa(entry.UserCode),
		strconv.Itoa(int(entry.Status)),
		entry.Date(),
	}, true)
}

func (r *LogRepository) DeleteByTaskCode(ctx context.Context, taskCode int) error {
	return domain.ErrNotImplemented
}

// Entries reads back the whole trail in file order. It is used when copying
// the trail into another backend, not by the task logic.
func (r *LogRepository) Entries(ctx context.Context) ([]domain.Log, error) {
	records, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.Log, 0, len(records))
	for _, rec := range records {
		taskCode, err := rec.intField(r.table, 0)
		if err != nil {
			return nil, err
		}
		userCode, err := rec.intField(r.table, 1)
		if err != nil {
			return nil, err
		}
		status, err := domain.ParseStatus(strings.TrimSpace(rec.fields[2]))
		if err != nil {
			return nil, r.table.corrupt(rec.line, err)
		}
		date, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(rec.fields[3]), time.Local)
		if err != nil {
			return nil, r.table.corrupt(rec.line, err)
		}
		entries = append(entries, domain.Log{
			TaskCode:   taskCode,
			UserCode:   userCode,
			Status:     status,
			ChangeDate: date,
		})
	}
	return entries, nil
}
