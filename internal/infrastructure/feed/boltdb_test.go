package feed

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomly/backend/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "feed.db"), "events")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func event(apartmentID, id string, at time.Time) domain.Event {
	return domain.Event{
		ID:          id,
		ApartmentID: apartmentID,
		Entity:      domain.EntityTask,
		Action:      domain.ActionCreated,
		CreatedAt:   at,
	}
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().Add(-time.Minute)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(event("apt-1", fmt.Sprintf("ev-%d", i), base.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, store.Append(event("apt-2", "other", base)))

	events, err := store.Recent("apt-1", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.Before(events[i-1].CreatedAt), "events out of order")
	}
	for _, e := range events {
		assert.Equal(t, "apt-1", e.ApartmentID)
	}
}

func TestRecentSinceAndLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().Add(-time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Append(event("apt-1", fmt.Sprintf("ev-%d", i), base.Add(time.Duration(i)*time.Second))))
	}

	events, err := store.Recent("apt-1", base.Add(4*time.Second), 0)
	require.NoError(t, err)
	assert.Len(t, events, 5)

	events, err = store.Recent("apt-1", time.Time{}, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestAppendRejectsIncompleteEvents(t *testing.T) {
	store := openTestStore(t)

	err := store.Append(domain.Event{ApartmentID: "apt-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	err = store.Append(domain.Event{ID: "ev-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().Add(-time.Hour)

	require.NoError(t, store.Append(event("apt-1", "old", base)))
	require.NoError(t, store.Append(event("apt-1", "new", time.Now())))

	require.NoError(t, store.Prune(time.Now().Add(-time.Minute)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	events, err := store.Recent("apt-1", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].ID)
}
