package rating

import (
	"context"

	"go.uber.org/zap"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
)

// UseCase owns roommate ratings: one per (rater, ratee) pair, deletable only
// by the rater.
type UseCase struct {
	ratings repository.RatingRepository
	users   repository.UserRepository
	logger  *zap.Logger
}

func New(ratings repository.RatingRepository, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		ratings: ratings,
		users:   users,
		logger:  logger,
	}
}

func (uc *UseCase) Rate(ctx context.Context, raterID, rateeID string, stars int, comment string) (*domain.Rating, error) {
	if raterID == rateeID {
		return nil, domain.ErrSelfRating
	}

	rating := &domain.Rating{
		UserID:  rateeID,
		RaterID: raterID,
		Stars:   stars,
		Comment: comment,
	}
	if err := rating.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.users.GetByID(ctx, rateeID); err != nil {
		return nil, err
	}

	return uc.ratings.Create(ctx, rating)
}

// Remove deletes the caller's own rating of rateeID. Keying the delete by the
// caller is what enforces "only by their own rater".
func (uc *UseCase) Remove(ctx context.Context, raterID, rateeID string) error {
	return uc.ratings.Delete(ctx, rateeID, raterID)
}

func (uc *UseCase) ListForUser(ctx context.Context, userID string) ([]domain.Rating, *domain.RatingSummary, error) {
	ratings, err := uc.ratings.ListForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	summary := &domain.RatingSummary{UserID: userID, Count: len(ratings)}
	if len(ratings) > 0 {
		total := 0
		for _, r := range ratings {
			total += r.Stars
		}
		summary.Average = float64(total) / float64(len(ratings))
	}
	return ratings, summary, nil
}
