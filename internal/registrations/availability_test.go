package registrations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsunagu-circle/backend/internal/models"
)

type fakeOracle struct {
	count       int
	err         error
	countCalls  int
	invalidated []int64
}

func (f *fakeOracle) Count(ctx context.Context, eventID int64) (int, error) {
	f.countCalls++
	return f.count, f.err
}

func (f *fakeOracle) Invalidate(ctx context.Context, eventID int64) {
	f.invalidated = append(f.invalidated, eventID)
}

func capOf(n int32) *int32 { return &n }

func futureEvent(capacity *int32) *models.Event {
	return &models.Event{
		ID:       42,
		Slug:     "autumn-bbq",
		StartsAt: time.Now().Add(24 * time.Hour),
		Capacity: capacity,
	}
}

func TestResolveAvailabilityUnlimitedSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{}
	a := ResolveAvailability(context.Background(), futureEvent(nil), oracle, time.Now())

	assert.Equal(t, StatusOpen, a.Status)
	assert.Nil(t, a.Capacity)
	assert.Nil(t, a.Count)
	assert.Zero(t, oracle.countCalls, "unlimited events must not consult the count oracle")
}

func TestResolveAvailabilityOpen(t *testing.T) {
	oracle := &fakeOracle{count: 12}
	a := ResolveAvailability(context.Background(), futureEvent(capOf(30)), oracle, time.Now())

	assert.Equal(t, StatusOpen, a.Status)
	require.NotNil(t, a.Count)
	assert.Equal(t, 12, *a.Count)
	require.NotNil(t, a.Remaining)
	assert.Equal(t, 18, *a.Remaining)
	assert.True(t, a.Registrable())
}

func TestResolveAvailabilityFull(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"exactly at capacity", 30},
		{"over capacity", 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &fakeOracle{count: tt.count}
			a := ResolveAvailability(context.Background(), futureEvent(capOf(30)), oracle, time.Now())

			assert.Equal(t, StatusFull, a.Status)
			require.NotNil(t, a.Remaining)
			assert.Equal(t, 0, *a.Remaining, "remaining never goes negative")
			assert.False(t, a.Registrable())
		})
	}
}

// A count failure must read as Unknown, never as Open: rendering stays up but
// writes are blocked.
func TestResolveAvailabilityUnknownOnOracleError(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("connection refused")}
	a := ResolveAvailability(context.Background(), futureEvent(capOf(30)), oracle, time.Now())

	assert.Equal(t, StatusUnknown, a.Status)
	assert.Nil(t, a.Count)
	assert.False(t, a.Registrable())
}

func TestResolveAvailabilityEnded(t *testing.T) {
	oracle := &fakeOracle{count: 5}
	ev := futureEvent(capOf(30))
	ev.StartsAt = time.Now().Add(-time.Hour)

	a := ResolveAvailability(context.Background(), ev, oracle, time.Now())

	assert.Equal(t, StatusEnded, a.Status)
	assert.False(t, a.Registrable())
	assert.Zero(t, oracle.countCalls, "ended events resolve without a count lookup")
}

func TestFullAvailabilityForcesCountToCapacity(t *testing.T) {
	a := fullAvailability(capOf(25))

	assert.Equal(t, StatusFull, a.Status)
	require.NotNil(t, a.Count)
	assert.Equal(t, 25, *a.Count)
	require.NotNil(t, a.Remaining)
	assert.Equal(t, 0, *a.Remaining)
}
