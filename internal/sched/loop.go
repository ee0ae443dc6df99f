// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sched

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Loop is a real-time Scheduler backed by a single goroutine. Tasks run in
// the order they were posted; timers post their callback when they fire.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewLoop creates an idle loop. Call Run to start processing tasks.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, f := range batch {
			l.run(f)
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			l.Close()
			return
		case <-l.done:
			return
		}
	}
}

// run executes a task, containing panics so one bad callback cannot stop
// the loop.
func (l *Loop) run(f func()) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("scheduled task panicked",
				"error", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()
	f()
}

// Post queues f to run on the next turn. Tasks posted after Close are dropped.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc posts f to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.mu.Lock()
	lt.t = time.AfterFunc(d, func() {
		l.Post(lt.fire(f))
	})
	lt.mu.Unlock()
	return lt
}

// Close stops the loop. Pending timers still fire but their tasks are dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
}

// Done is closed once the loop has been closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

type loopTimer struct {
	mu      sync.Mutex
	t       *time.Timer
	stopped bool
	fired   bool
}

// fire wraps f so a Stop that lands after the timer expired but before the
// task ran still cancels it.
func (lt *loopTimer) fire(f func()) func() {
	return func() {
		lt.mu.Lock()
		if lt.stopped {
			lt.mu.Unlock()
			return
		}
		lt.fired = true
		lt.mu.Unlock()
		f()
	}
}

func (lt *loopTimer) Stop() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped || lt.fired {
		return false
	}
	lt.stopped = true
	lt.t.Stop()
	return true
}
