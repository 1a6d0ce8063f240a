package domain

// Status is the shared tri-state lifecycle of tasks and expenses.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Next cycles pending -> in_progress -> finished -> pending. Unknown values
// reset to pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusFinished
	default:
		return StatusPending
	}
}

// Valid reports whether the value is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusFinished:
		return true
	}
	return false
}
