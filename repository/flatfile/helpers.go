package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fastygo/taskapp/domain"
)

const (
	separator = ","

	usersHeader = "Code,Name,Email,Password"
	tasksHeader = "Code,Name,Status,Rep_User_Code"
	logsHeader  = "Code,Rep_User_Code,Status,Change_Date"

	maxLineSize = 1 << 20
)

// record is one data line together with the exact text it was parsed from
// and its terminator, so a rewrite can re-emit untouched lines verbatim.
// eol is empty for a final line with no terminator.
type record struct {
	line   int
	raw    string
	eol    string
	fields []string
}

// table is a comma-separated file whose first line is a header.
type table struct {
	path   string
	header string
	fields int
}

func newTable(path, header string) table {
	return table{
		path:   path,
		header: header,
		fields: len(strings.Split(header, separator)),
	}
}

// read loads every data line. Blank lines are skipped; the header is never validated.
func (t table) read(ctx context.Context) ([]record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(t.path)
	if err != nil {
		return nil, t.unavailable("open", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLinesWithEOL)

	var records []record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		raw, eol := splitEOL(scanner.Text())
		if strings.TrimSpace(raw) == "" {
			continue
		}
		fields := strings.Split(raw, separator)
		if len(fields) != t.fields {
			return nil, t.corrupt(lineNo, fmt.Errorf("expected %d fields, got %d", t.fields, len(fields)))
		}
		records = append(records, record{line: lineNo, raw: raw, eol: eol, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, t.unavailable("read", err)
	}
	return records, nil
}

// append adds one line at the end of the file. A line separator is only
// written first when the existing content does not already end with one.
// The new line ends in CRLF when the file already does. When create is set
// a missing file is created with its header.
func (t table) append(ctx context.Context, fields []string, create bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkFields(fields); err != nil {
		return err
	}

	flags := os.O_RDWR | os.O_APPEND
	if create {
		flags |= os.O_CREATE
		if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
			return t.unavailable("create directory for", err)
		}
	}

	f, err := os.OpenFile(t.path, flags, 0o644)
	if err != nil {
		return t.unavailable("open", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return t.unavailable("stat", err)
	}

	var buf strings.Builder
	eol := "\n"
	if info.Size() == 0 {
		buf.WriteString(t.header)
		buf.WriteString(eol)
	} else {
		n := min(info.Size(), 2)
		tail := make([]byte, n)
		if _, err := f.ReadAt(tail, info.Size()-n); err != nil {
			return t.unavailable("read", err)
		}
		switch {
		case bytes.HasSuffix(tail, []byte("\r\n")):
			eol = "\r\n"
		case !bytes.HasSuffix(tail, []byte("\n")):
			buf.WriteString(eol)
		}
	}
	buf.WriteString(strings.Join(fields, separator))
	buf.WriteString(eol)

	if _, err := f.WriteString(buf.String()); err != nil {
		return t.unavailable("write", err)
	}
	if err := f.Close(); err != nil {
		return t.unavailable("close", err)
	}
	return nil
}

// rewrite replaces the whole file with the header followed by records. Each
// record keeps its own terminator; the header and unterminated records take
// the terminator of the first terminated record, or LF.
func (t table) rewrite(ctx context.Context, records []record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	eol := "\n"
	for _, rec := range records {
		if rec.eol != "" {
			eol = rec.eol
			break
		}
	}

	var buf bytes.Buffer
	buf.WriteString(t.header)
	buf.WriteString(eol)
	for _, rec := range records {
		buf.WriteString(rec.raw)
		if rec.eol != "" {
			buf.WriteString(rec.eol)
		} else {
			buf.WriteString(eol)
		}
	}

	if err := writeFileAtomic(t.path, buf.Bytes()); err != nil {
		return t.unavailable("rewrite", err)
	}
	return nil
}

// unavailable reports an I/O failure on the table's file. A *fs.PathError is
// unwrapped so the path is not repeated in the message.
func (t table) unavailable(op string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return domain.WrapError(domain.ErrCodeUnavailable, fmt.Sprintf("%s %s", op, t.path), err)
}

func (t table) corrupt(line int, err error) error {
	return domain.WrapError(domain.ErrCodeCorrupt, fmt.Sprintf("%s:%d: malformed record", t.path, line), err)
}

func (r record) intField(t table, i int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(r.fields[i]))
	if err != nil {
		return 0, t.corrupt(r.line, err)
	}
	return n, nil
}

// scanLinesWithEOL is bufio.ScanLines but keeps the terminator in the token.
func scanLinesWithEOL(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// splitEOL separates a scanned line from its LF or CRLF terminator. A stray
// CR on an unterminated final line is dropped.
func splitEOL(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return strings.TrimSuffix(line, "\r"), ""
	}
}

func checkFields(fields []string) error {
	for _, f := range fields {
		if strings.ContainsAny(f, ",\r\n") {
			return domain.NewError(domain.ErrCodeInvalid, "values must not contain commas or line breaks")
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, keeping the permissions of the file it replaces.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
