package repository

import (
	"context"

	"github.com/roomly/backend/domain"
)

type TaskFilter struct {
	ApartmentID string
	AssignedTo  string
	Status      domain.Status
	Limit       int
	Offset      int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	UpdateAssignee(ctx context.Context, id string, assignee string) error
}
