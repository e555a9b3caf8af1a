package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/kabulqd1101/kanban/api/transport"
	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/repository"
	"github.com/kabulqd1101/kanban/repository/memory"
	taskUC "github.com/kabulqd1101/kanban/usecase/task"
)

func newTaskHandler(tasks []domain.Task) (*TaskHandler, *memory.TaskRepository) {
	taskRepo := memory.NewTaskRepository(tasks)
	userRepo := memory.NewUserRepository([]domain.User{
		{ID: "u1", Name: "Alice", Role: domain.RoleManager},
	})
	uc := taskUC.New(taskRepo, userRepo, nil, taskUC.WithClock(func() time.Time {
		return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	}))
	return NewTaskHandler(uc, nil, nil), taskRepo
}

func postRequest(body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodPost)
	ctx.Request.Header.Set("X-User-ID", "u1")
	ctx.Request.SetBody([]byte(body))
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var envelope transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	return envelope
}

func TestCreateTask(t *testing.T) {
	h, repo := newTaskHandler(nil)

	ctx := postRequest(`{
		"title": "发布新版本",
		"status": "IN_PROGRESS",
		"plan_hours": 8,
		"actual_hours": 2,
		"deadline": "2026-09-05"
	}`)
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	assert.Equal(t, "success", envelope.Status)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "u1", data["assignee_id"], "assignee defaults to the acting user")
	assert.Equal(t, "u1", data["updated_by"])

	tasks, err := repo.List(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreateTask_EmptyTitleRejected(t *testing.T) {
	h, repo := newTaskHandler(nil)

	ctx := postRequest(`{"title": "", "status": "TODO"}`)
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	assert.Equal(t, "error", envelope.Status)
	assert.Equal(t, string(domain.ErrCodeInvalid), envelope.Code)

	tasks, err := repo.List(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks, "a refused submit leaves the collection unchanged")
}

func TestCreateTask_MalformedBody(t *testing.T) {
	h, _ := newTaskHandler(nil)

	ctx := postRequest(`{not json`)
	h.CreateTask(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestCreateTask_NegativeHoursClamped(t *testing.T) {
	h, _ := newTaskHandler(nil)

	ctx := postRequest(`{"title": "clamp", "plan_hours": -4, "actual_hours": -1}`)
	h.CreateTask(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, 0.0, data["plan_hours"])
	assert.Equal(t, 0.0, data["actual_hours"])
}

func TestUpdateTask_KeepsID(t *testing.T) {
	h, repo := newTaskHandler([]domain.Task{
		{ID: "t1", Title: "原始标题", AssigneeID: "u1", Status: domain.StatusTodo},
	})

	ctx := postRequest(`{"title": "更新后的标题", "status": "DONE"}`)
	ctx.SetUserValue("id", "t1")
	h.UpdateTask(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	stored, err := repo.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "更新后的标题", stored.Title)
	assert.Equal(t, domain.StatusDone, stored.Status)
}

func TestDeleteTask_NotFound(t *testing.T) {
	h, _ := newTaskHandler(nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodDelete)
	ctx.SetUserValue("id", "missing")
	h.DeleteTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestGetDraft_Defaults(t *testing.T) {
	h, _ := newTaskHandler(nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodGet)
	ctx.Request.Header.Set("X-User-ID", "u1")
	h.GetDraft(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, string(domain.StatusTodo), data["status"])
	assert.Equal(t, "u1", data["assignee_id"])
	assert.Equal(t, "", data["id"])
}
