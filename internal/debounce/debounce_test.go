package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type collector struct {
	mu   sync.Mutex
	got  []int
	runs atomic.Int32
}

func (c *collector) deliver(v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, v)
}

func (c *collector) results() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.got...)
}

func (c *collector) run(v int) func(context.Context) int {
	return func(context.Context) int {
		c.runs.Add(1)
		return v
	}
}

func TestSchedule_CoalescesBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New[int](20 * time.Millisecond)
	defer s.Stop()
	c := &collector{}

	for i := range 10 {
		s.Schedule(c.run(i), c.deliver)
	}

	require.Eventually(t, func() bool { return len(c.results()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{9}, c.results())
	assert.Equal(t, int32(1), c.runs.Load())
	require.Eventually(t, func() bool { return !s.Pending() }, time.Second, 5*time.Millisecond)
}

func TestSchedule_SupersededRunIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New[int](5 * time.Millisecond)
	defer s.Stop()
	c := &collector{}

	started := make(chan struct{})
	slow := func(ctx context.Context) int {
		close(started)
		<-ctx.Done()
		return -1
	}
	s.Schedule(slow, c.deliver)
	<-started

	s.Schedule(c.run(2), c.deliver)

	require.Eventually(t, func() bool { return len(c.results()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2}, c.results())
}

func TestSchedule_SeparatedEventsEachRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New[int](5 * time.Millisecond)
	defer s.Stop()
	c := &collector{}

	s.Schedule(c.run(1), c.deliver)
	require.Eventually(t, func() bool { return len(c.results()) == 1 }, time.Second, 2*time.Millisecond)
	s.Schedule(c.run(2), c.deliver)
	require.Eventually(t, func() bool { return len(c.results()) == 2 }, time.Second, 2*time.Millisecond)
	assert.Equal(t, []int{1, 2}, c.results())
}

func TestStop_CancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New[int](time.Hour)
	c := &collector{}
	s.Schedule(c.run(1), c.deliver)
	assert.True(t, s.Pending())

	s.Stop()
	assert.False(t, s.Pending())
	assert.Equal(t, int32(0), c.runs.Load())

	s.Schedule(c.run(2), c.deliver)
	assert.False(t, s.Pending(), "schedule after stop is ignored")
}

func TestStop_WaitsForInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New[int](time.Millisecond)
	c := &collector{}
	started := make(chan struct{})
	var finished atomic.Bool
	s.Schedule(func(ctx context.Context) int {
		close(started)
		<-ctx.Done()
		finished.Store(true)
		return 0
	}, c.deliver)

	<-started
	s.Stop()
	assert.True(t, finished.Load())
	assert.Empty(t, c.results())
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New[int](0).Interval)
}
