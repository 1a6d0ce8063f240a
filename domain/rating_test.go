package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingValidate(t *testing.T) {
	r := &Rating{UserID: "u2", RaterID: "u1", Stars: 4, Comment: "Great roommate, always clean up"}
	require.NoError(t, r.Validate())
}

func TestRatingValidateStarsOutOfRange(t *testing.T) {
	for _, stars := range []int{0, -1, 6} {
		r := &Rating{Stars: stars, Comment: "one two three four five"}
		err := r.Validate()
		require.Error(t, err)
		assert.True(t, IsDomainError(err, ErrCodeInvalid))
	}
}

func TestRatingValidateShortComment(t *testing.T) {
	r := &Rating{Stars: 3, Comment: "too short comment"}
	err := r.Validate()
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestRatingValidateNil(t *testing.T) {
	var r *Rating
	assert.Error(t, r.Validate())
}
