package domain

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// MaxTaskNameLength is the longest task name accepted at input, counted in characters.
const MaxTaskNameLength = 10

// Status is the lifecycle state of a task.
type Status int

const (
	StatusUnstarted Status = iota
	StatusInProgress
	StatusDone
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s >= StatusUnstarted && s <= StatusDone
}

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusUnstarted:
		return "unstarted"
	case StatusInProgress:
		return "in progress"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

func (s Status) String() string {
	return s.Label()
}

// ParseStatus converts the stored numeric form of a status.
func ParseStatus(value string) (Status, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("status %q is not a number", value)
	}
	s := Status(n)
	if !s.Valid() {
		return 0, fmt.Errorf("status %d is out of range", n)
	}
	return s, nil
}

// ValidateTransition applies the sequential-advance rule to a requested status change.
//
// Only UNSTARTED -> IN_PROGRESS and IN_PROGRESS -> UNSTARTED are accepted. A request for
// DONE is rejected regardless of the current status.
func ValidateTransition(current, next Status) error {
	switch next {
	case StatusDone:
		return ErrInvalidTransition
	case StatusInProgress:
		if current == StatusInProgress || current == StatusDone {
			return ErrInvalidTransition
		}
	case StatusUnstarted:
		if current == StatusUnstarted || current == StatusDone {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	if !current.Valid() {
		return ErrInvalidTransition
	}
	return nil
}

// Task represents a unit of work with a single responsible user.
type Task struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Status  Status `json:"status"`
	RepUser *User  `json:"rep_user"`
}

// RepUserCode returns the code of the responsible user, or zero when unset.
func (t *Task) RepUserCode() int {
	if t == nil || t.RepUser == nil {
		return 0
	}
	return t.RepUser.Code
}

// ResponsibleLabel describes who is responsible for the task from the viewer's point of view.
func (t *Task) ResponsibleLabel(viewer *User) string {
	if t.RepUser == nil {
		return "nobody"
	}
	if t.RepUser.Is(viewer) {
		return "you"
	}
	if t.RepUser.Name == "" {
		return fmt.Sprintf("user %d", t.RepUser.Code)
	}
	return t.RepUser.Name
}

// ValidateTaskName enforces the input-time cap on task names.
func ValidateTaskName(name string) error {
	if utf8.RuneCountInString(name) > MaxTaskNameLength {
		return ErrTaskNameTooLong
	}
	return nil
}
