package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualRunsTasksInTimeOrder(t *testing.T) {
	m := NewManual()
	var got []string

	m.AfterFunc(200*time.Millisecond, func() { got = append(got, "200ms") })
	m.AfterFunc(50*time.Millisecond, func() { got = append(got, "50ms") })
	m.Post(func() { got = append(got, "next turn") })

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"next turn", "50ms"}, got)
	assert.Equal(t, 100*time.Millisecond, m.Now())
	assert.Equal(t, 1, m.Pending())

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"next turn", "50ms", "200ms"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManualSameDeadlineKeepsScheduleOrder(t *testing.T) {
	m := NewManual()
	var got []int
	for i := range 5 {
		m.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	m.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestManualNestedSchedulingInsideWindow(t *testing.T) {
	m := NewManual()
	var at []time.Duration

	m.AfterFunc(100*time.Millisecond, func() {
		at = append(at, m.Now())
		m.AfterFunc(50*time.Millisecond, func() { at = append(at, m.Now()) })
	})

	m.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}, at)
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	ran := false
	timer := m.AfterFunc(time.Second, func() { ran = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing prevented")

	m.Advance(2 * time.Second)
	assert.False(t, ran)

	done := m.AfterFunc(0, func() {})
	m.RunPending()
	assert.False(t, done.Stop(), "stop after run reports false")
}

func TestDebouncerRunsOnceAfterQuiet(t *testing.T) {
	m := NewManual()
	d := NewDebouncer(m, 150*time.Millisecond)
	calls := 0

	for range 5 {
		d.Trigger(func() { calls++ })
		m.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0, calls, "events kept arriving inside the window")

	m.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, calls)

	m.Advance(time.Second)
	assert.Equal(t, 1, calls)
}

func TestDebouncerCancel(t *testing.T) {
	m := NewManual()
	d := NewDebouncer(m, 150*time.Millisecond)
	calls := 0

	d.Trigger(func() { calls++ })
	d.Cancel()
	m.Advance(time.Second)
	assert.Equal(t, 0, calls)
}

func TestLoopRunsPostedTasksInOrder(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	for i := range 10 {
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			n := len(got)
			mu.Unlock()
			if n == 10 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoopAfterFuncAndStop(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })

	stopped := l.AfterFunc(time.Hour, func() { t.Error("stopped timer ran") })
	require.True(t, stopped.Stop())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoopSurvivesPanickingTask(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	ran := make(chan struct{})
	l.Post(func() { panic("boom") })
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped after panic")
	}
}

func TestLoopCloseDropsTasks(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not close on cancel")
	}

	l.Post(func() { t.Error("task ran after close") })
	l.Close()
}
