package repository

import (
	"context"

	"github.com/roomly/backend/domain"
)

// RatingRepository persists roommate ratings keyed by (ratee, rater).
// Create returns domain.ErrAlreadyRated when the pair already exists.
type RatingRepository interface {
	Get(ctx context.Context, userID, raterID string) (*domain.Rating, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Rating, error)
	Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error)
	Delete(ctx context.Context, userID, raterID string) error
}
