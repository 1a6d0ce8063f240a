package domain

import (
	"strings"
	"time"
)

const (
	MinRatingStars  = 1
	MaxRatingStars  = 5
	MinCommentWords = 5
)

// Rating is one user's review of a roommate, keyed by (ratee, rater).
type Rating struct {
	UserID    string    `json:"user_id"`
	RaterID   string    `json:"rater_id"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the star range and the minimum comment length.
func (r *Rating) Validate() error {
	if r == nil {
		return ErrInvalidPayload
	}
	if r.Stars < MinRatingStars || r.Stars > MaxRatingStars {
		return NewError(ErrCodeInvalid, "stars must be between 1 and 5")
	}
	if len(strings.Fields(r.Comment)) < MinCommentWords {
		return NewError(ErrCodeInvalid, "comment must contain at least 5 words")
	}
	return nil
}

// RatingSummary aggregates the ratings received by one user.
type RatingSummary struct {
	UserID  string  `json:"user_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
