package transport

import (
	"time"

	"github.com/fastygo/taskapp/domain"
)

type UserView struct {
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TaskView struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Status      int    `json:"status"`
	StatusLabel string `json:"status_label"`
	UserCode    int    `json:"user_code"`
	Responsible string `json:"responsible"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

func NewUserView(u *domain.User) UserView {
	return UserView{Code: u.Code, Name: u.Name, Email: u.Email}
}

// NewTaskView renders a task as seen by viewer.
func NewTaskView(t *domain.Task, viewer *domain.User) TaskView {
	return TaskView{
		Code:        t.Code,
		Name:        t.Name,
		Status:      int(t.Status),
		StatusLabel: t.Status.Label(),
		UserCode:    t.RepUserCode(),
		Responsible: t.ResponsibleLabel(viewer),
	}
}

func NewTaskViews(tasks []domain.Task, viewer *domain.User) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, NewTaskView(&tasks[i], viewer))
	}
	return views
}
