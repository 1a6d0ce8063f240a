package domain

import "time"

// Task represents a chore scoped to an apartment.
type Task struct {
	ID          string     `json:"id"`
	ApartmentID string     `json:"apartment_id"`
	Title       string     `json:"title"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
