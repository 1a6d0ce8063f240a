package usecase

import (
	"context"

	"github.com/roomly/backend/domain"
)

// ChangeNotifier abstracts the change feed so use cases stay transport-agnostic.
// Publishing is best effort: a notifier failure must never fail the mutation
// that produced the event.
type ChangeNotifier interface {
	Notify(ctx context.Context, event domain.Event) error
}
