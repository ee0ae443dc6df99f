// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sched

import "time"

// Debouncer delays a callback until triggers stop arriving for a fixed
// window. It must only be used from callbacks of its Scheduler.
type Debouncer struct {
	s       Scheduler
	wait    time.Duration
	pending Timer
}

// NewDebouncer creates a Debouncer with the given quiet window.
func NewDebouncer(s Scheduler, wait time.Duration) *Debouncer {
	return &Debouncer{s: s, wait: wait}
}

// Trigger cancels any pending callback and schedules f after the window.
func (d *Debouncer) Trigger(f func()) {
	d.Cancel()
	d.pending = d.s.AfterFunc(d.wait, func() {
		d.pending = nil
		f()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
