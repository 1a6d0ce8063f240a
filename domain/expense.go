package domain

import "time"

// Expense represents a shared cost scoped to an apartment.
type Expense struct {
	ID          string     `json:"id"`
	ApartmentID string     `json:"apartment_id"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	PaidBy      string     `json:"paid_by,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
