package registrations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsunagu-circle/backend/internal/platform"
)

type fakeCaller struct {
	result *int64 // value scanned into the routine's out parameter
	err    error
	calls  int
	args   platform.NamedArgs
}

func (f *fakeCaller) Call(ctx context.Context, routine string, args platform.NamedArgs, dest ...any) error {
	f.calls++
	f.args = args
	if f.err != nil {
		return f.err
	}
	*(dest[0].(**int64)) = f.result
	return nil
}

func int64p(n int64) *int64 { return &n }

func TestCounterCount(t *testing.T) {
	caller := &fakeCaller{result: int64p(17)}
	c := NewCounter(caller, nil, 0, nil)

	n, err := c.Count(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	require.Len(t, caller.args, 1)
	assert.Equal(t, "p_event_id", caller.args[0].Name)
}

// Non-positive ids are rejected locally, before any remote call.
func TestCounterRejectsInvalidIDWithoutCall(t *testing.T) {
	caller := &fakeCaller{result: int64p(17)}
	c := NewCounter(caller, nil, 0, nil)

	for _, id := range []int64{0, -1} {
		_, err := c.Count(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidEvent)
	}
	assert.Zero(t, caller.calls)
}

// The routine answers NULL for an event it does not know.
func TestCounterNullMeansInvalidEvent(t *testing.T) {
	caller := &fakeCaller{result: nil}
	c := NewCounter(caller, nil, 0, nil)

	_, err := c.Count(context.Background(), 999)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestCounterWrapsTransportError(t *testing.T) {
	caller := &fakeCaller{err: errors.New("dial tcp: refused")}
	c := NewCounter(caller, nil, 0, nil)

	_, err := c.Count(context.Background(), 42)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidEvent)
}

// Repeated reads are idempotent against the same backing count.
func TestCounterRepeatedReads(t *testing.T) {
	caller := &fakeCaller{result: int64p(8)}
	c := NewCounter(caller, nil, 0, nil)

	for i := 0; i < 3; i++ {
		n, err := c.Count(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, 8, n)
	}
	assert.Equal(t, 3, caller.calls, "no cache configured, every read hits the routine")
}

// Invalidate with no cache configured is a no-op, not a panic.
func TestCounterInvalidateWithoutCache(t *testing.T) {
	c := NewCounter(&fakeCaller{}, nil, 0, nil)
	c.Invalidate(context.Background(), 42)
}
