package ratelimit

import (
	"context"
	"fmt"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// Limiter records an event for key and reports whether it is within the limit.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Store adapts a ulule limiter instance to Limiter.
type Store struct {
	limiter *limiter.Limiter
}

// NewMemory builds an in-process fixed window limiter from a formatted rate such as "600-M".
func NewMemory(formatted string) (*Store, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	return &Store{limiter: limiter.New(memory.NewStore(), rate)}, nil
}

// Allow implements Limiter.
func (s *Store) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := s.limiter.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     res.Limit,
		Remaining: res.Remaining,
		Reset:     time.Unix(res.Reset, 0),
	}, nil
}
