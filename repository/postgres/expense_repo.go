package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
)

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository returns a Postgres-backed implementation of ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) repository.ExpenseRepository {
	return &expenseRepository{pool: pool}
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	const query = `
	SELECT id, apartment_id, title, amount, paid_by, expense_date, status, created_at, updated_at
	FROM expenses
	WHERE id = $1
	`
	return scanExpense(r.pool.QueryRow(ctx, query, id))
}

func (r *expenseRepository) List(ctx context.Context, filter repository.ExpenseFilter) ([]domain.Expense, error) {
	const query = `
	SELECT id, apartment_id, title, amount, paid_by, expense_date, status, created_at, updated_at
	FROM expenses
	WHERE apartment_id = $1
	  AND ($2 = '' OR paid_by = $2)
	  AND ($3 = '' OR status = $3)
	ORDER BY created_at ASC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.ApartmentID,
		filter.PaidBy,
		string(filter.Status),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if expense == nil {
		return nil, domain.ErrInvalidPayload
	}
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.Status == "" {
		expense.Status = domain.StatusPending
	}

	const query = `
	INSERT INTO expenses (id, apartment_id, title, amount, paid_by, expense_date, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		expense.ID,
		expense.ApartmentID,
		expense.Title,
		expense.Amount,
		expense.PaidBy,
		nullTime(expense.Date),
		string(expense.Status),
	).Scan(&expense.CreatedAt, &expense.UpdatedAt); err != nil {
		return nil, err
	}

	return expense, nil
}

func (r *expenseRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	const query = `
	UPDATE expenses
	SET status = $2,
		updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *expenseRepository) UpdatePayer(ctx context.Context, id string, payer string) error {
	const query = `
	UPDATE expenses
	SET paid_by = $2,
		updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, payer)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Expense, error) {
	var expense domain.Expense
	var (
		date   *time.Time
		status string
	)

	if err := row.Scan(
		&expense.ID,
		&expense.ApartmentID,
		&expense.Title,
		&expense.Amount,
		&expense.PaidBy,
		&date,
		&status,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	expense.Date = date
	expense.Status = domain.Status(status)
	return &expense, nil
}
