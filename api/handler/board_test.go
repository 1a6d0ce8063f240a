package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/roomly/backend/api/transport"
)

func boardCtx(body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-ID", "user-1")
	ctx.SetUserValue("id", "apt-1")
	ctx.Request.SetBodyString(body)
	return ctx
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("")
	require.NoError(t, err)
	assert.Nil(t, date)

	date, err = parseDate("2026-09-01T10:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), date.UTC())

	_, err = parseDate("tomorrow")
	assert.Error(t, err)

	_, err = parseDate("2026-09-01")
	assert.Error(t, err)
}

func TestCreateTaskRejectsMalformedDueDate(t *testing.T) {
	h := NewBoardHandler(nil, nil, nil)

	ctx := boardCtx(`{"title": "Dishes", "due_date": "not-a-date"}`)
	h.CreateTask(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestCreateTasksRejectsMalformedDueDate(t *testing.T) {
	h := NewBoardHandler(nil, nil, nil)

	ctx := boardCtx(`{"tasks": [{"title": "Dishes"}, {"title": "Vacuum", "due_date": "31/12/2026"}]}`)
	h.CreateTasks(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestCreateExpenseRejectsMalformedDate(t *testing.T) {
	h := NewBoardHandler(nil, nil, nil)

	ctx := boardCtx(`{"title": "Groceries", "amount": 12.5, "date": "yesterday"}`)
	h.CreateExpense(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestTaskFromRequest(t *testing.T) {
	task, err := taskFromRequest("apt-1", transport.TaskRequest{
		Title:   "Dishes",
		DueDate: "2026-09-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "apt-1", task.ApartmentID)
	require.NotNil(t, task.DueDate)

	_, err = taskFromRequest("apt-1", transport.TaskRequest{Title: "Dishes", DueDate: "bogus"})
	assert.Error(t, err)
}
