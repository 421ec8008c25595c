// Package ratelimit implements the per-client sliding window used to throttle signups.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Defaults for signup throttling.
const (
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SlidingWindow counts accepted requests per key over the trailing window.
// Rejected requests are not recorded, so a client that keeps retrying is
// admitted again as soon as its oldest accepted request leaves the window.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *SlidingWindow) {
		s.now = now
	}
}

// NewSlidingWindow creates a limiter admitting limit requests per window.
// Non-positive arguments fall back to the defaults.
func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	s := &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow implements Limiter. It never returns an error.
func (s *SlidingWindow) Allow(_ context.Context, key string) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := prune(s.hits[key], now.Add(-s.window))
	if len(recent) >= s.limit {
		s.hits[key] = recent
		return false, nil
	}

	s.hits[key] = append(recent, now)
	return true, nil
}

// Cleanup drops keys whose timestamps have all left the window.
// Returns the number of keys removed.
func (s *SlidingWindow) Cleanup() int {
	cutoff := s.now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ts := range s.hits {
		if recent := prune(ts, cutoff); len(recent) == 0 {
			delete(s.hits, key)
			removed++
		} else {
			s.hits[key] = recent
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *SlidingWindow) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

// Run calls Cleanup every interval until ctx is done.
func (s *SlidingWindow) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// prune drops timestamps older than cutoff. Timestamps are appended in
// order, so the survivors are a suffix.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0:0], ts[i:]...)
}
