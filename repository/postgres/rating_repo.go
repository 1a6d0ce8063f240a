package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
)

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository returns a Postgres-backed implementation of RatingRepository.
func NewRatingRepository(pool *pgxpool.Pool) repository.RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Get(ctx context.Context, userID, raterID string) (*domain.Rating, error) {
	const query = `
	SELECT user_id, rater_id, stars, comment, created_at
	FROM ratings
	WHERE user_id = $1 AND rater_id = $2
	`
	var rating domain.Rating
	if err := r.pool.QueryRow(ctx, query, userID, raterID).Scan(
		&rating.UserID,
		&rating.RaterID,
		&rating.Stars,
		&rating.Comment,
		&rating.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListForUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	const query = `
	SELECT user_id, rater_id, stars, comment, created_at
	FROM ratings
	WHERE user_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.UserID,
			&rating.RaterID,
			&rating.Stars,
			&rating.Comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	if rating == nil {
		return nil, domain.ErrInvalidPayload
	}

	// (user_id, rater_id) is the primary key: one rating per pair.
	const query = `
	INSERT INTO ratings (user_id, rater_id, stars, comment)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		rating.UserID,
		rating.RaterID,
		rating.Stars,
		rating.Comment,
	).Scan(&rating.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyRated
		}
		return nil, err
	}

	return rating, nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID, raterID string) error {
	const query = `DELETE FROM ratings WHERE user_id = $1 AND rater_id = $2`
	tag, err := r.pool.Exec(ctx, query, userID, raterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}
