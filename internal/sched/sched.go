// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sched provides the cooperative scheduling primitives used by the
// page controllers: a single-goroutine event loop with deferred callbacks,
// a manually advanced scheduler for tests, and a debouncer.
//
// Callbacks scheduled on one Scheduler never run concurrently with each
// other, so state touched only from callbacks needs no locking.
package sched

import "time"

// Timer is a pending deferred callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks one at a time, either on the next turn or after
// a delay.
type Scheduler interface {
	// Post runs f on the next scheduling turn.
	Post(f func())
	// AfterFunc runs f once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}
