package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/api/transport"
	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/pkg/httpcontext"
	"github.com/kabulqd1101/kanban/repository"
	taskUC "github.com/kabulqd1101/kanban/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	filter := repository.TaskFilter{
		Query:      string(ctx.QueryArgs().Peek("q")),
		AssigneeID: string(ctx.QueryArgs().Peek("assignee_id")),
		Status:     domain.TaskStatus(ctx.QueryArgs().Peek("status")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Default draft for a new task
// @Tags tasks
// @Router /api/v1/tasks/draft [get]
func (h *TaskHandler) GetDraft(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft := h.uc.NewDraft(stdCtx, h.actingUser(ctx))
	h.respondSuccess(ctx, http.StatusOK, draft)
}

// @Summary Editable copy of a stored task
// @Tags tasks
// @Router /api/v1/tasks/{id}/draft [get]
func (h *TaskHandler) GetEditDraft(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	draft, err := h.uc.EditDraft(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, draft)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	draft, ok := h.parseDraft(ctx)
	if !ok {
		return
	}
	draft.ID = ""

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Submit(stdCtx, *draft, h.actingUser(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	draft, ok := h.parseDraft(ctx)
	if !ok {
		return
	}

	if id, idOK := ctx.UserValue("id").(string); idOK && id != "" {
		draft.ID = id
	}
	if draft.ID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Submit(stdCtx, *draft, h.actingUser(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) parseDraft(ctx *fasthttp.RequestCtx) (*domain.Task, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return nil, false
	}

	draft := &domain.Task{
		ID:            req.ID,
		Title:         req.Title,
		AssigneeID:    req.AssigneeID,
		Status:        domain.TaskStatus(req.Status),
		PlanContent:   req.PlanContent,
		ActualContent: req.ActualContent,
		PlanHours:     clampHours(req.PlanHours),
		ActualHours:   clampHours(req.ActualHours),
		Deadline:      parseDeadline(req.Deadline),
	}
	if draft.AssigneeID == "" {
		draft.AssigneeID = h.actingUser(ctx)
	}

	return draft, true
}

func clampHours(hours float64) float64 {
	if hours < 0 {
		return 0
	}
	return hours
}

func parseDeadline(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed.UTC()
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}
