// Package registrations implements the capacity-safe registration workflow:
// availability resolution, advisory form validation, the single atomic
// registration call, and the staff roster surface. The capacity limit itself
// is enforced by the platform's registration routine; the client-side checks
// here are advisory.
package registrations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/platform"
)

// ErrInvalidEvent is returned when a count is requested for an id that does
// not resolve to an existing event.
var ErrInvalidEvent = errors.New("invalid event")

const countRoutine = "get_event_registration_count"

// rpcCaller is the slice of the platform client the counter needs.
type rpcCaller interface {
	Call(ctx context.Context, routine string, args platform.NamedArgs, dest ...any) error
}

// Counter is the registration count oracle. Counts are resolved through one
// privileged aggregate routine, never by enumerating registration rows,
// which carry personal data that public paths must not touch. An optional
// short-TTL Redis cache sits in front; cache trouble degrades to a direct
// call, never to an error.
type Counter struct {
	caller rpcCaller
	cache  *redis.Client // nil disables caching
	ttl    time.Duration
	logger *zap.Logger
}

// NewCounter creates a count oracle. cache may be nil.
func NewCounter(caller rpcCaller, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Counter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Counter{caller: caller, cache: cache, ttl: ttl, logger: logger}
}

// Count returns how many registrations event eventID currently has.
func (c *Counter) Count(ctx context.Context, eventID int64) (int, error) {
	if eventID <= 0 {
		return 0, ErrInvalidEvent
	}

	if n, ok := c.cached(ctx, eventID); ok {
		return n, nil
	}

	// The routine returns NULL for an unknown event, a count otherwise.
	var n *int64
	err := c.caller.Call(ctx, countRoutine,
		platform.NamedArgs{{Name: "p_event_id", Value: eventID}}, &n)
	if err != nil {
		return 0, fmt.Errorf("registration count: %w", err)
	}
	if n == nil {
		return 0, ErrInvalidEvent
	}

	c.store(ctx, eventID, int(*n))
	return int(*n), nil
}

// Invalidate drops the cached count for an event. Called after every
// successful registration so the next read reflects the insert.
func (c *Counter) Invalidate(ctx context.Context, eventID int64) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, countKey(eventID)).Err(); err != nil {
		c.logger.Warn("count cache invalidate failed", zap.Error(err), zap.Int64("event_id", eventID))
	}
}

func (c *Counter) cached(ctx context.Context, eventID int64) (int, bool) {
	if c.cache == nil || c.ttl <= 0 {
		return 0, false
	}
	v, err := c.cache.Get(ctx, countKey(eventID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("count cache read failed", zap.Error(err), zap.Int64("event_id", eventID))
		}
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Counter) store(ctx context.Context, eventID int64, n int) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}
	if err := c.cache.Set(ctx, countKey(eventID), n, c.ttl).Err(); err != nil {
		c.logger.Warn("count cache write failed", zap.Error(err), zap.Int64("event_id", eventID))
	}
}

func countKey(eventID int64) string {
	return fmt.Sprintf("event:%d:regcount", eventID)
}
