package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/roomly/backend/api/transport"
	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/pkg/httpcontext"
	"github.com/roomly/backend/repository"
	boardUC "github.com/roomly/backend/usecase/board"
)

type BoardHandler struct {
	baseHandler
	uc *boardUC.UseCase
}

func NewBoardHandler(uc *boardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags board
// @Router /api/v1/apartments/{id}/tasks [get]
func (h *BoardHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}

	filter := repository.TaskFilter{
		ApartmentID: apartmentID,
		AssignedTo:  string(ctx.QueryArgs().Peek("assigned_to")),
		Status:      domain.Status(ctx.QueryArgs().Peek("status")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, userID, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create a task
// @Tags board
// @Router /api/v1/apartments/{id}/tasks [post]
func (h *BoardHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}

	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	task, err := taskFromRequest(apartmentID, req)
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, userID, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Create a batch of tasks
// @Tags board
// @Router /api/v1/apartments/{id}/tasks/batch [post]
func (h *BoardHandler) CreateTasks(ctx *fasthttp.RequestCtx) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}

	var req transport.TaskBatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	tasks := make([]domain.Task, 0, len(req.Tasks))
	for i, item := range req.Tasks {
		task, err := taskFromRequest(apartmentID, item)
		if err != nil {
			h.respondInvalid(ctx, fmt.Sprintf("task %d: %v", i, err))
			return
		}
		tasks = append(tasks, *task)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.CreateTasks(stdCtx, userID, apartmentID, tasks)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, result)
}

// @Summary Distribute all tasks round-robin over the roster
// @Tags board
// @Router /api/v1/apartments/{id}/tasks/distribute [post]
func (h *BoardHandler) DistributeTasks(ctx *fasthttp.RequestCtx) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.DistributeTasks(stdCtx, userID, apartmentID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Cycle a task's status
// @Tags board
// @Router /api/v1/apartments/{id}/tasks/{itemID}/toggle [post]
func (h *BoardHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	h.toggle(ctx, boardUC.KindTask)
}

// @Summary Assign a task to a member
// @Tags board
// @Router /api/v1/apartments/{id}/tasks/{itemID}/assignee [put]
func (h *BoardHandler) AssignTask(ctx *fasthttp.RequestCtx) {
	h.assign(ctx, boardUC.KindTask)
}

// @Summary List expenses
// @Tags board
// @Router /api/v1/apartments/{id}/expenses [get]
func (h *BoardHandler) ListExpenses(ctx *fasthttp.RequestCtx) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}

	filter := repository.ExpenseFilter{
		ApartmentID: apartmentID,
		PaidBy:      string(ctx.QueryArgs().Peek("paid_by")),
		Status:      domain.Status(ctx.QueryArgs().Peek("status")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	expenses, err := h.uc.ListExpenses(stdCtx, userID, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, expenses)
}

// @Summary Create an expense
// @Tags board
// @Router /api/v1/apartments/{id}/expenses [post]
func (h *BoardHandler) CreateExpense(ctx *fasthttp.RequestCtx) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}

	var req transport.ExpenseRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.respondInvalid(ctx, "date must be RFC3339")
		return
	}
	expense := &domain.Expense{
		ApartmentID: apartmentID,
		Title:       req.Title,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		Date:        date,
		Status:      domain.Status(req.Status),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateExpense(stdCtx, userID, expense)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Cycle an expense's status
// @Tags board
// @Router /api/v1/apartments/{id}/expenses/{itemID}/toggle [post]
func (h *BoardHandler) ToggleExpense(ctx *fasthttp.RequestCtx) {
	h.toggle(ctx, boardUC.KindExpense)
}

// @Summary Set the payer of an expense
// @Tags board
// @Router /api/v1/apartments/{id}/expenses/{itemID}/payer [put]
func (h *BoardHandler) AssignExpense(ctx *fasthttp.RequestCtx) {
	h.assign(ctx, boardUC.KindExpense)
}

func (h *BoardHandler) toggle(ctx *fasthttp.RequestCtx, kind boardUC.ItemKind) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}
	itemID, _ := ctx.UserValue("itemID").(string)
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := h.uc.ToggleStatus(stdCtx, userID, apartmentID, itemID, kind)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *BoardHandler) assign(ctx *fasthttp.RequestCtx, kind boardUC.ItemKind) {
	userID, apartmentID := h.scope(ctx)
	if userID == "" || apartmentID == "" {
		return
	}
	itemID, _ := ctx.UserValue("itemID").(string)
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	var req transport.AssignRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.MemberID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Assign(stdCtx, userID, apartmentID, itemID, req.MemberID, kind); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *BoardHandler) scope(ctx *fasthttp.RequestCtx) (string, string) {
	userID := h.userID(ctx)
	if userID == "" {
		return "", ""
	}
	apartmentID, _ := ctx.UserValue("id").(string)
	if apartmentID == "" {
		h.respondInvalid(ctx, "missing apartment id")
		return "", ""
	}
	return userID, apartmentID
}

func taskFromRequest(apartmentID string, req transport.TaskRequest) (*domain.Task, error) {
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, errors.New("due_date must be RFC3339")
	}
	return &domain.Task{
		ApartmentID: apartmentID,
		Title:       req.Title,
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
		Status:      domain.Status(req.Status),
	}, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
