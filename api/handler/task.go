package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskapp/api/transport"
	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/pkg/httpcontext"
	authUC "github.com/fastygo/taskapp/usecase/auth"
	taskUC "github.com/fastygo/taskapp/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc    *taskUC.UseCase
	users *authUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, users *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		users:       users,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	actor, ok := h.actor(ctx, stdCtx)
	if !ok {
		return
	}

	tasks, err := h.uc.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(transport.NewTaskViews(tasks, actor)))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Code == nil || req.UserCode == nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if *req.Code < 0 || *req.UserCode < 0 {
		h.respondInvalid(ctx, "codes must be non-negative integers")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	actor, ok := h.actor(ctx, stdCtx)
	if !ok {
		return
	}

	created, err := h.uc.CreateTask(stdCtx, *req.Code, req.Name, *req.UserCode, actor)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewTaskView(created, actor))
}

// @Summary Change task status
// @Tags tasks
// @Router /api/v1/tasks/{code}/status [put]
func (h *TaskHandler) ChangeStatus(ctx *fasthttp.RequestCtx) {
	code, ok := pathCode(ctx, "code")
	if !ok {
		h.respondInvalid(ctx, "task code must be a non-negative integer")
		return
	}
	var req transport.StatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Status == nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	next := domain.Status(*req.Status)
	if next != domain.StatusInProgress && next != domain.StatusDone {
		h.respondInvalid(ctx, "please choose the status from 1 or 2")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	actor, ok := h.actor(ctx, stdCtx)
	if !ok {
		return
	}

	updated, err := h.uc.ChangeStatus(stdCtx, code, next, actor)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskView(updated, actor))
}

// @Summary Delete task (not supported)
// @Tags tasks
// @Router /api/v1/tasks/{code} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	code, ok := pathCode(ctx, "code")
	if !ok {
		h.respondInvalid(ctx, "task code must be a non-negative integer")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, code); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// actor resolves the user the request's token was issued for. It writes the
// error response itself when resolution fails.
func (h *TaskHandler) actor(ctx *fasthttp.RequestCtx, stdCtx context.Context) (*domain.User, bool) {
	code, ok := httpcontext.UserCode(stdCtx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrUnauthorized)
		return nil, false
	}
	user, err := h.users.CurrentUser(stdCtx, code)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return nil, false
	}
	return user, true
}
