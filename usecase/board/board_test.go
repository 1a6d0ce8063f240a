package board

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
)

type fakeApartmentRepo struct {
	apartments map[string]*domain.Apartment
}

func (r *fakeApartmentRepo) GetByID(_ context.Context, id string) (*domain.Apartment, error) {
	a, ok := r.apartments[id]
	if !ok {
		return nil, domain.ErrApartmentNotFound
	}
	return a, nil
}

func (r *fakeApartmentRepo) GetByCode(_ context.Context, _ string) (*domain.Apartment, error) {
	return nil, domain.ErrApartmentNotFound
}

func (r *fakeApartmentRepo) ListByMember(_ context.Context, _ string) ([]domain.Apartment, error) {
	return nil, nil
}

func (r *fakeApartmentRepo) Create(_ context.Context, a *domain.Apartment) (*domain.Apartment, error) {
	return a, nil
}

func (r *fakeApartmentRepo) UpdateMembers(_ context.Context, _ string, _ []string, _ int) error {
	return nil
}

func (r *fakeApartmentRepo) UpdateCode(_ context.Context, _ string, _ string) error {
	return nil
}

func (r *fakeApartmentRepo) CodeExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type fakeTaskRepo struct {
	tasks   map[string]*domain.Task
	order   []string
	failIDs map[string]bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task), failIDs: make(map[string]bool)}
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, id := range r.order {
		t := r.tasks[id]
		if filter.ApartmentID != "" && t.ApartmentID != filter.ApartmentID {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	clone := *task
	clone.ID = fmt.Sprintf("task-%d", len(r.order)+1)
	if clone.Status == "" {
		clone.Status = domain.StatusPending
	}
	r.tasks[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	return &clone, nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTaskRepo) UpdateAssignee(_ context.Context, id string, assignee string) error {
	if r.failIDs[id] {
		return domain.NewError(domain.ErrCodeInternal, "write failed")
	}
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.AssignedTo = assignee
	return nil
}

type fakeExpenseRepo struct {
	expenses map[string]*domain.Expense
	order    []string
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[string]*domain.Expense)}
}

func (r *fakeExpenseRepo) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return e, nil
}

func (r *fakeExpenseRepo) List(_ context.Context, filter repository.ExpenseFilter) ([]domain.Expense, error) {
	var out []domain.Expense
	for _, id := range r.order {
		e := r.expenses[id]
		if filter.ApartmentID != "" && e.ApartmentID != filter.ApartmentID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *domain.Expense) (*domain.Expense, error) {
	clone := *expense
	clone.ID = fmt.Sprintf("exp-%d", len(r.order)+1)
	if clone.Status == "" {
		clone.Status = domain.StatusPending
	}
	r.expenses[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	return &clone, nil
}

func (r *fakeExpenseRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	e, ok := r.expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeExpenseRepo) UpdatePayer(_ context.Context, id string, payer string) error {
	e, ok := r.expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	e.PaidBy = payer
	return nil
}

func fixture(members ...string) (*UseCase, *fakeTaskRepo, *fakeExpenseRepo) {
	apartments := &fakeApartmentRepo{apartments: map[string]*domain.Apartment{
		"apt-1": {ID: "apt-1", Name: "Sunset Flat", Code: "123456", Members: members, Capacity: 10},
	}}
	tasks := newFakeTaskRepo()
	expenses := newFakeExpenseRepo()
	return New(apartments, tasks, expenses, nil, nil), tasks, expenses
}

func TestCreateTask(t *testing.T) {
	uc, _, _ := fixture("alice", "bob")

	created, err := uc.CreateTask(context.Background(), "alice", &domain.Task{
		ApartmentID: "apt-1",
		Title:       "Take out trash",
		AssignedTo:  "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "bob", created.AssignedTo)
}

func TestCreateTaskRejectsOutsiders(t *testing.T) {
	uc, _, _ := fixture("alice")

	_, err := uc.CreateTask(context.Background(), "mallory", &domain.Task{
		ApartmentID: "apt-1",
		Title:       "Take out trash",
	})
	assert.ErrorIs(t, err, domain.ErrNotMember)

	_, err = uc.CreateTask(context.Background(), "alice", &domain.Task{
		ApartmentID: "apt-1",
		Title:       "Take out trash",
		AssignedTo:  "mallory",
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateTasksReportsPerItemFailures(t *testing.T) {
	uc, _, _ := fixture("alice", "bob")

	result, err := uc.CreateTasks(context.Background(), "alice", "apt-1", []domain.Task{
		{Title: "Dishes"},
		{Title: ""},
		{Title: "Vacuum", AssignedTo: "ghost"},
		{Title: "Laundry", AssignedTo: "bob"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.Equal(t, 2, result.Failed[1].Index)
}

func TestToggleStatusCycles(t *testing.T) {
	uc, tasks, _ := fixture("alice")

	created, err := tasks.Create(context.Background(), &domain.Task{ApartmentID: "apt-1", Title: "Dishes"})
	require.NoError(t, err)

	for _, want := range []domain.Status{domain.StatusInProgress, domain.StatusFinished, domain.StatusPending} {
		got, err := uc.ToggleStatus(context.Background(), "alice", "apt-1", created.ID, KindTask)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestToggleStatusScopedToApartment(t *testing.T) {
	uc, tasks, _ := fixture("alice")

	foreign, err := tasks.Create(context.Background(), &domain.Task{ApartmentID: "apt-2", Title: "Dishes"})
	require.NoError(t, err)

	_, err = uc.ToggleStatus(context.Background(), "alice", "apt-1", foreign.ID, KindTask)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestAssignRequiresMemberTarget(t *testing.T) {
	uc, tasks, _ := fixture("alice", "bob")

	created, err := tasks.Create(context.Background(), &domain.Task{ApartmentID: "apt-1", Title: "Dishes"})
	require.NoError(t, err)

	err = uc.Assign(context.Background(), "alice", "apt-1", created.ID, "ghost", KindTask)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	require.NoError(t, uc.Assign(context.Background(), "alice", "apt-1", created.ID, "bob", KindTask))
	got, err := tasks.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.AssignedTo)
}

func TestDistributeTasksRoundRobin(t *testing.T) {
	uc, tasks, _ := fixture("alice", "bob", "carol")

	for i := 0; i < 7; i++ {
		_, err := tasks.Create(context.Background(), &domain.Task{ApartmentID: "apt-1", Title: fmt.Sprintf("Chore %d", i)})
		require.NoError(t, err)
	}

	result, err := uc.DistributeTasks(context.Background(), "alice", "apt-1")
	require.NoError(t, err)
	assert.Equal(t, 7, result.Assigned)
	assert.Empty(t, result.Failed)

	counts := map[string]int{}
	all, err := tasks.List(context.Background(), repository.TaskFilter{ApartmentID: "apt-1"})
	require.NoError(t, err)
	for _, task := range all {
		counts[task.AssignedTo]++
	}
	// 7 tasks over 3 members: every member gets floor(7/3) or ceil(7/3).
	for member, n := range counts {
		assert.GreaterOrEqual(t, n, 2, "member %s", member)
		assert.LessOrEqual(t, n, 3, "member %s", member)
	}
	assert.Len(t, counts, 3)
}

func TestDistributeTasksReportsWriteFailures(t *testing.T) {
	uc, tasks, _ := fixture("alice", "bob")

	first, err := tasks.Create(context.Background(), &domain.Task{ApartmentID: "apt-1", Title: "Dishes"})
	require.NoError(t, err)
	_, err = tasks.Create(context.Background(), &domain.Task{ApartmentID: "apt-1", Title: "Vacuum"})
	require.NoError(t, err)

	tasks.failIDs[first.ID] = true

	result, err := uc.DistributeTasks(context.Background(), "alice", "apt-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Assigned)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 0, result.Failed[0].Index)
}

func TestCreateExpense(t *testing.T) {
	uc, _, _ := fixture("alice", "bob")

	created, err := uc.CreateExpense(context.Background(), "alice", &domain.Expense{
		ApartmentID: "apt-1",
		Title:       "Groceries",
		Amount:      42.50,
		PaidBy:      "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)

	_, err = uc.CreateExpense(context.Background(), "alice", &domain.Expense{
		ApartmentID: "apt-1",
		Title:       "Groceries",
		Amount:      -1,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.CreateExpense(context.Background(), "alice", &domain.Expense{
		ApartmentID: "apt-1",
		Title:       "Groceries",
		PaidBy:      "ghost",
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
