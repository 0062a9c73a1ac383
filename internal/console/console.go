// Package console implements the interactive task-tracking session: login,
// the main menu, task listing, task creation and status changes.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/pkg/logger"
)

// Authenticator checks login credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// TaskService is the task logic the console drives.
type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, code int, name string, repUserCode int, actor *domain.User) (*domain.Task, error)
	ChangeStatus(ctx context.Context, code int, next domain.Status, actor *domain.User) (*domain.Task, error)
}

// Console reads commands line by line and renders results as plain text.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	auth   Authenticator
	tasks  TaskService
	logger *zap.Logger
}

func New(in io.Reader, out io.Writer, auth Authenticator, tasks TaskService, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		auth:   auth,
		tasks:  tasks,
		logger: logger,
	}
}

// Run logs a user in and serves the main menu until logout. It returns nil on
// logout and an error wrapping io.EOF if input ends first.
func (c *Console) Run(ctx context.Context) error {
	c.println("Welcome to the task manager!")

	actor, err := c.login(ctx)
	if err != nil {
		return err
	}

	for {
		c.println("Choose an option from 1-3 below.")
		c.println("1. list tasks, 2. create task, 3. logout")
		choice, err := c.prompt("choice: ")
		if err != nil {
			return err
		}
		c.println()

		switch choice {
		case "1":
			err = c.listTasks(ctx, actor)
		case "2":
			err = c.createTask(ctx, actor)
		case "3":
			c.println("logged out.")
			return nil
		default:
			c.println("invalid choice. please choose from 1-3.")
		}
		if err != nil {
			return err
		}
		c.println()
	}
}

func (c *Console) login(ctx context.Context) (*domain.User, error) {
	for {
		email, err := c.prompt("email address: ")
		if err != nil {
			return nil, err
		}
		password, err := c.prompt("password: ")
		if err != nil {
			return nil, err
		}

		user, err := c.auth.Login(logger.NewOperation(ctx), email, password)
		if err == nil {
			c.println()
			return user, nil
		}
		c.report(err)
		c.println()
	}
}

func (c *Console) listTasks(ctx context.Context, actor *domain.User) error {
	tasks, err := c.tasks.ListTasks(logger.NewOperation(ctx))
	if err != nil {
		c.report(err)
		return nil
	}
	for i := range tasks {
		t := &tasks[i]
		c.printf("%d. name: %s, responsible: %s, status: %s\n",
			t.Code, t.Name, t.ResponsibleLabel(actor), t.Status.Label())
	}
	return c.subMenu(ctx, actor)
}

func (c *Console) subMenu(ctx context.Context, actor *domain.User) error {
	for {
		c.println("Choose an option from 1-2 below.")
		c.println("1. change task status, 2. back to main menu")
		choice, err := c.prompt("choice: ")
		if err != nil {
			return err
		}

		if !isNumeric(choice) {
			c.println("please enter the choice using digits.")
			c.println()
			continue
		}

		switch choice {
		case "1":
			if err := c.changeStatus(ctx, actor); err != nil {
				return err
			}
		case "2":
			c.println("returning to the main menu.")
			return nil
		default:
			c.println("invalid choice. please choose from 1-2.")
		}
		c.println()
	}
}

func (c *Console) createTask(ctx context.Context, actor *domain.User) error {
	for {
		codeText, err := c.prompt("task code: ")
		if err != nil {
			return err
		}
		code, ok := parseCode(codeText)
		if !ok {
			c.println("please enter the code using digits.")
			c.println()
			continue
		}

		name, err := c.prompt("task name: ")
		if err != nil {
			return err
		}
		if domain.ValidateTaskName(name) != nil {
			c.printf("please enter a task name of %d characters or fewer.\n", domain.MaxTaskNameLength)
			c.println()
			continue
		}

		userText, err := c.prompt("code of the user in charge: ")
		if err != nil {
			return err
		}
		userCode, ok := parseCode(userText)
		if !ok {
			c.println("please enter the user code using digits.")
			c.println()
			continue
		}

		created, err := c.tasks.CreateTask(logger.NewOperation(ctx), code, name, userCode, actor)
		if err != nil {
			c.report(err)
			if domain.IsStorageFailure(err) {
				return nil
			}
			c.println()
			continue
		}
		c.printf("%s has been registered.\n", created.Name)
		return nil
	}
}

func (c *Console) changeStatus(ctx context.Context, actor *domain.User) error {
	for {
		codeText, err := c.prompt("code of the task to change: ")
		if err != nil {
			return err
		}
		code, ok := parseCode(codeText)
		if !ok {
			c.println("please enter the code using digits.")
			c.println()
			continue
		}

		c.println("Choose the new status.")
		c.println("1. in progress, 2. done")
		statusText, err := c.prompt("choice: ")
		if err != nil {
			return err
		}
		n, ok := parseCode(statusText)
		if !ok {
			c.println("please enter the status using digits.")
			c.println()
			continue
		}
		next := domain.Status(n)
		if next != domain.StatusInProgress && next != domain.StatusDone {
			c.println("please choose the status from 1 or 2.")
			c.println()
			continue
		}

		if _, err := c.tasks.ChangeStatus(logger.NewOperation(ctx), code, next, actor); err != nil {
			c.report(err)
			if domain.IsStorageFailure(err) {
				return nil
			}
			c.println()
			continue
		}
		c.println("status change completed.")
		return nil
	}
}

// report shows a domain error to the user. Storage failures are also logged;
// callers return to the menu on them instead of prompting again.
func (c *Console) report(err error) {
	var dErr *domain.Error
	if errors.As(err, &dErr) && !domain.IsStorageFailure(err) {
		c.println(dErr.Message)
		return
	}
	c.logger.Error("operation failed", zap.Error(err))
	c.printf("error: %v\n", err)
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		c.println()
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// isNumeric reports whether s is a non-empty run of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseCode(s string) (int, bool) {
	if !isNumeric(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
