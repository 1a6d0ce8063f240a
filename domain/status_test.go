package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusNextCycles(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusPending.Next())
	assert.Equal(t, StatusFinished, StatusInProgress.Next())
	assert.Equal(t, StatusPending, StatusFinished.Next())
}

func TestStatusTripleToggleRoundTrip(t *testing.T) {
	for _, start := range []Status{StatusPending, StatusInProgress, StatusFinished} {
		assert.Equal(t, start, start.Next().Next().Next(), "three toggles from %s", start)
	}
}

func TestStatusNextResetsUnknown(t *testing.T) {
	assert.Equal(t, StatusPending, Status("bogus").Next())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusFinished.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("done").Valid())
}
