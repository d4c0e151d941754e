// Package debounce coalesces bursts of change events into one run.
//
// Each Schedule call supersedes the previous one: a pending timer is
// stopped, an in-flight run has its context cancelled, and only the
// result of the most recently scheduled run is delivered.
package debounce

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the quiet period before a scheduled run starts.
const DefaultInterval = 300 * time.Millisecond

// Scheduler runs the latest scheduled function after Interval of quiet.
type Scheduler[T any] struct {
	Interval time.Duration

	mu      sync.Mutex
	version uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

// New returns a scheduler with the given interval. Non-positive values
// use DefaultInterval.
func New[T any](interval time.Duration) *Scheduler[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler[T]{Interval: interval}
}

// Schedule arranges for run to execute after the interval. deliver
// receives the result only if no later Schedule or Stop happened in the
// meantime. Schedule after Stop is a no-op.
func (s *Scheduler[T]) Schedule(run func(ctx context.Context) T, deliver func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.supersede()

	s.version++
	v := s.version
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	s.timer = time.AfterFunc(s.interval(), func() {
		defer s.wg.Done()
		defer cancel()
		if ctx.Err() != nil {
			return
		}
		result := run(ctx)

		s.mu.Lock()
		current := v == s.version && !s.stopped
		s.mu.Unlock()
		if current && ctx.Err() == nil {
			deliver(result)
		}

		s.mu.Lock()
		if v == s.version {
			s.timer = nil
			s.cancel = nil
		}
		s.mu.Unlock()
	})
}

// Pending reports whether a run is scheduled or in flight.
func (s *Scheduler[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels any pending or in-flight run and waits for it to return.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.supersede()
	s.mu.Unlock()
	s.wg.Wait()
}

// supersede stops the pending timer and cancels the in-flight run.
// Caller holds s.mu.
func (s *Scheduler[T]) supersede() {
	if s.timer != nil && s.timer.Stop() {
		// The callback never ran, so its Done is ours to call.
		s.wg.Done()
	}
	s.timer = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler[T]) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}
