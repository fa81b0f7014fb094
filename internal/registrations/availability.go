package registrations

import (
	"context"
	"time"

	"github.com/tsunagu-circle/backend/internal/models"
)

// Status is the derived availability of an event.
type Status string

const (
	// StatusOpen means registration is accepted.
	StatusOpen Status = "open"
	// StatusFull means capacity is reached.
	StatusFull Status = "full"
	// StatusUnknown means the count could not be determined. Writes are
	// blocked in this state: an unchecked submission could violate the
	// capacity invariant, so the workflow fails closed while the page keeps
	// rendering.
	StatusUnknown Status = "unknown"
	// StatusEnded means the event already started; registration is over.
	StatusEnded Status = "ended"
)

// Availability combines capacity and resolved count into the state the UI
// renders. Count and Remaining are absent for unlimited-capacity events and
// while the count is unknown.
type Availability struct {
	Status    Status `json:"status"`
	Capacity  *int32 `json:"capacity"`
	Count     *int   `json:"count,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

// Registrable reports whether a submission may be issued in this state.
func (a Availability) Registrable() bool {
	return a.Status == StatusOpen
}

// CountOracle resolves current registration counts.
type CountOracle interface {
	Count(ctx context.Context, eventID int64) (int, error)
	Invalidate(ctx context.Context, eventID int64)
}

// ResolveAvailability derives an event's availability. Unlimited-capacity
// events are open without consulting the oracle at all; a failed count
// resolves to Unknown, never to Open.
func ResolveAvailability(ctx context.Context, ev *models.Event, oracle CountOracle, now time.Time) Availability {
	if ev.Ended(now) {
		return Availability{Status: StatusEnded, Capacity: ev.Capacity}
	}
	if ev.Capacity == nil {
		return Availability{Status: StatusOpen}
	}

	n, err := oracle.Count(ctx, ev.ID)
	if err != nil {
		return Availability{Status: StatusUnknown, Capacity: ev.Capacity}
	}

	capacity := int(*ev.Capacity)
	remaining := capacity - n
	if remaining < 0 {
		remaining = 0
	}
	status := StatusOpen
	if n >= capacity {
		status = StatusFull
	}
	return Availability{Status: status, Capacity: ev.Capacity, Count: &n, Remaining: &remaining}
}

// fullAvailability is the forced state after the platform authoritatively
// rejects a registration for capacity: the local count is overridden to
// capacity regardless of any staler snapshot.
func fullAvailability(capacity *int32) Availability {
	a := Availability{Status: StatusFull, Capacity: capacity}
	if capacity != nil {
		n := int(*capacity)
		zero := 0
		a.Count = &n
		a.Remaining = &zero
	}
	return a
}
