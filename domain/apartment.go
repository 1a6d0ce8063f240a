package domain

import "time"

// DefaultCapacity is the roster size used when configuration does not
// override it.
const DefaultCapacity = 10

// Apartment is the shared living space entity. Membership is a single
// ordered list of user ids: slot n of the roster is Members[n-1] and the
// next free slot is len(Members). Version guards concurrent roster updates.
type Apartment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Code      string    `json:"code"`
	Members   []string  `json:"members"`
	Capacity  int       `json:"capacity"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Apartment) HasMember(userID string) bool {
	if a == nil {
		return false
	}
	for _, id := range a.Members {
		if id == userID {
			return true
		}
	}
	return false
}

func (a *Apartment) IsFull() bool {
	if a == nil {
		return true
	}
	cap := a.Capacity
	if cap <= 0 {
		cap = DefaultCapacity
	}
	return len(a.Members) >= cap
}

// Slot returns the 1-based roster position of the user, or 0 when absent.
func (a *Apartment) Slot(userID string) int {
	if a == nil {
		return 0
	}
	for i, id := range a.Members {
		if id == userID {
			return i + 1
		}
	}
	return 0
}
