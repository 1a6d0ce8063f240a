package board

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
	"github.com/roomly/backend/usecase"
)

// ItemKind selects between the two board collections.
type ItemKind string

const (
	KindTask    ItemKind = "task"
	KindExpense ItemKind = "expense"
)

// BatchItemError reports one failed item of a batched operation.
type BatchItemError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BatchResult aggregates the outcome of a batched write instead of dropping
// individual failures.
type BatchResult struct {
	Created []domain.Task    `json:"created"`
	Failed  []BatchItemError `json:"failed,omitempty"`
}

// DistributeResult reports how a round-robin distribution went.
type DistributeResult struct {
	Assigned int              `json:"assigned"`
	Failed   []BatchItemError `json:"failed,omitempty"`
}

// UseCase owns the chore and expense boards of an apartment.
type UseCase struct {
	apartments repository.ApartmentRepository
	tasks      repository.TaskRepository
	expenses   repository.ExpenseRepository
	notifier   usecase.ChangeNotifier
	logger     *zap.Logger
}

func New(apartments repository.ApartmentRepository, tasks repository.TaskRepository, expenses repository.ExpenseRepository, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		apartments: apartments,
		tasks:      tasks,
		expenses:   expenses,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *UseCase) CreateTask(ctx context.Context, callerID string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	apartment, err := uc.member(ctx, task.ApartmentID, callerID)
	if err != nil {
		return nil, err
	}
	if err := validateTask(apartment, task); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.emit(ctx, created.ApartmentID, domain.EntityTask, domain.ActionCreated, callerID, created)
	return created, nil
}

// CreateTasks writes a batch of chores and reports which items failed rather
// than dropping individual errors.
func (uc *UseCase) CreateTasks(ctx context.Context, callerID, apartmentID string, tasks []domain.Task) (*BatchResult, error) {
	apartment, err := uc.member(ctx, apartmentID, callerID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "no tasks to create")
	}

	result := &BatchResult{}
	for i := range tasks {
		task := tasks[i]
		task.ApartmentID = apartmentID
		if err := validateTask(apartment, &task); err != nil {
			result.Failed = append(result.Failed, BatchItemError{Index: i, Error: err.Error()})
			continue
		}
		created, err := uc.tasks.Create(ctx, &task)
		if err != nil {
			result.Failed = append(result.Failed, BatchItemError{Index: i, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, *created)
	}

	if len(result.Created) > 0 {
		uc.emit(ctx, apartmentID, domain.EntityTask, domain.ActionCreated, callerID, result)
	}
	return result, nil
}

func (uc *UseCase) ListTasks(ctx context.Context, callerID string, filter repository.TaskFilter) ([]domain.Task, error) {
	if _, err := uc.member(ctx, filter.ApartmentID, callerID); err != nil {
		return nil, err
	}
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) CreateExpense(ctx context.Context, callerID string, expense *domain.Expense) (*domain.Expense, error) {
	if expense == nil {
		return nil, domain.ErrInvalidPayload
	}
	apartment, err := uc.member(ctx, expense.ApartmentID, callerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(expense.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "expense title is required")
	}
	if expense.Amount < 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "amount must not be negative")
	}
	if expense.PaidBy != "" && !apartment.HasMember(expense.PaidBy) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payer is not a member of this apartment")
	}

	created, err := uc.expenses.Create(ctx, expense)
	if err != nil {
		return nil, err
	}
	uc.emit(ctx, created.ApartmentID, domain.EntityExpense, domain.ActionCreated, callerID, created)
	return created, nil
}

func (uc *UseCase) ListExpenses(ctx context.Context, callerID string, filter repository.ExpenseFilter) ([]domain.Expense, error) {
	if _, err := uc.member(ctx, filter.ApartmentID, callerID); err != nil {
		return nil, err
	}
	return uc.expenses.List(ctx, filter)
}

// ToggleStatus cycles pending -> in_progress -> finished -> pending and
// returns the new value.
func (uc *UseCase) ToggleStatus(ctx context.Context, callerID, apartmentID, itemID string, kind ItemKind) (domain.Status, error) {
	if _, err := uc.member(ctx, apartmentID, callerID); err != nil {
		return "", err
	}

	switch kind {
	case KindTask:
		task, err := uc.tasks.GetByID(ctx, itemID)
		if err != nil {
			return "", err
		}
		if task.ApartmentID != apartmentID {
			return "", domain.ErrTaskNotFound
		}
		next := task.Status.Next()
		if err := uc.tasks.UpdateStatus(ctx, itemID, next); err != nil {
			return "", err
		}
		task.Status = next
		uc.emit(ctx, apartmentID, domain.EntityTask, domain.ActionUpdated, callerID, task)
		return next, nil
	case KindExpense:
		expense, err := uc.expenses.GetByID(ctx, itemID)
		if err != nil {
			return "", err
		}
		if expense.ApartmentID != apartmentID {
			return "", domain.ErrExpenseNotFound
		}
		next := expense.Status.Next()
		if err := uc.expenses.UpdateStatus(ctx, itemID, next); err != nil {
			return "", err
		}
		expense.Status = next
		uc.emit(ctx, apartmentID, domain.EntityExpense, domain.ActionUpdated, callerID, expense)
		return next, nil
	default:
		return "", domain.NewError(domain.ErrCodeInvalid, "unknown item kind")
	}
}

// Assign sets the assignee of a task or the payer of an expense. The target
// must be a member of the apartment.
func (uc *UseCase) Assign(ctx context.Context, callerID, apartmentID, itemID, memberID string, kind ItemKind) error {
	apartment, err := uc.member(ctx, apartmentID, callerID)
	if err != nil {
		return err
	}
	if !apartment.HasMember(memberID) {
		return domain.NewError(domain.ErrCodeInvalid, "assignee is not a member of this apartment")
	}

	switch kind {
	case KindTask:
		task, err := uc.tasks.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if task.ApartmentID != apartmentID {
			return domain.ErrTaskNotFound
		}
		if err := uc.tasks.UpdateAssignee(ctx, itemID, memberID); err != nil {
			return err
		}
		task.AssignedTo = memberID
		uc.emit(ctx, apartmentID, domain.EntityTask, domain.ActionAssigned, callerID, task)
		return nil
	case KindExpense:
		expense, err := uc.expenses.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if expense.ApartmentID != apartmentID {
			return domain.ErrExpenseNotFound
		}
		if err := uc.expenses.UpdatePayer(ctx, itemID, memberID); err != nil {
			return err
		}
		expense.PaidBy = memberID
		uc.emit(ctx, apartmentID, domain.EntityExpense, domain.ActionAssigned, callerID, expense)
		return nil
	default:
		return domain.NewError(domain.ErrCodeInvalid, "unknown item kind")
	}
}

// DistributeTasks assigns every task of the apartment round-robin over the
// roster: task i goes to members[i mod M], so each member ends up with
// floor(N/M) or ceil(N/M) tasks. Individual write failures are reported, not
// dropped.
func (uc *UseCase) DistributeTasks(ctx context.Context, callerID, apartmentID string) (*DistributeResult, error) {
	apartment, err := uc.member(ctx, apartmentID, callerID)
	if err != nil {
		return nil, err
	}
	if len(apartment.Members) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "apartment has no members")
	}

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{ApartmentID: apartmentID})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "apartment has no tasks to distribute")
	}

	result := &DistributeResult{}
	for i, task := range tasks {
		assignee := apartment.Members[i%len(apartment.Members)]
		if err := uc.tasks.UpdateAssignee(ctx, task.ID, assignee); err != nil {
			result.Failed = append(result.Failed, BatchItemError{Index: i, Error: err.Error()})
			continue
		}
		result.Assigned++
	}

	uc.emit(ctx, apartmentID, domain.EntityTask, domain.ActionAssigned, callerID, result)
	return result, nil
}

func (uc *UseCase) member(ctx context.Context, apartmentID, callerID string) (*domain.Apartment, error) {
	apartment, err := uc.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if !apartment.HasMember(callerID) {
		return nil, domain.ErrNotMember
	}
	return apartment, nil
}

func validateTask(apartment *domain.Apartment, task *domain.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "task title is required")
	}
	if task.AssignedTo != "" && !apartment.HasMember(task.AssignedTo) {
		return domain.NewError(domain.ErrCodeInvalid, "assignee is not a member of this apartment")
	}
	if task.Status != "" && !task.Status.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}
	return nil
}

func (uc *UseCase) emit(ctx context.Context, apartmentID, entity, action, actorID string, payload interface{}) {
	if uc.notifier == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	event := domain.Event{
		ApartmentID: apartmentID,
		Entity:      entity,
		Action:      action,
		ActorID:     actorID,
		Payload:     raw,
	}
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("change event dropped", zap.String("entity", entity), zap.Error(err))
	}
}
