package domain

import (
	"encoding/json"
	"time"
)

// Event entities and actions published on the change feed.
const (
	EntityApartment = "apartment"
	EntityTask      = "task"
	EntityExpense   = "expense"

	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionJoined   = "joined"
	ActionAssigned = "assigned"
)

// Event describes a committed change to apartment-scoped state. Consumers
// subscribed to an apartment receive every event in commit order.
type Event struct {
	ID          string          `json:"id"`
	ApartmentID string          `json:"apartment_id"`
	Entity      string          `json:"entity"`
	Action      string          `json:"action"`
	ActorID     string          `json:"actor_id,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
