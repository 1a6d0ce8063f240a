package repository

import (
	"context"

	"github.com/roomly/backend/domain"
)

type ExpenseFilter struct {
	ApartmentID string
	PaidBy      string
	Status      domain.Status
	Limit       int
	Offset      int
}

type ExpenseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error)
	Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	UpdatePayer(ctx context.Context, id string, payer string) error
}
