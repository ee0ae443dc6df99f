// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sched

import (
	"sync"
	"time"
)

// Manual is a Scheduler whose clock only moves when Advance is called.
// It lets tests observe deferred sequencing without real timers.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualTask
}

type manualTask struct {
	at      time.Duration
	seq     uint64
	f       func()
	stopped bool
	ran     bool
	owner   *Manual
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Post schedules f for the next turn, i.e. the next Advance call.
func (m *Manual) Post(f func()) {
	m.AfterFunc(0, f)
}

// AfterFunc schedules f to run once the clock has moved by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{at: m.now + d, seq: m.seq, f: f, owner: m}
	m.pending = append(m.pending, task)
	return task
}

// Advance moves the clock forward by d, running every task that falls due
// in time order. Tasks scheduled by running tasks are honoured if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		task := m.popDue(target)
		if task == nil {
			break
		}
		task.f()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// RunPending runs every task due at the current time.
func (m *Manual) RunPending() {
	m.Advance(0)
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of tasks that have not run or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Manual) popDue(target time.Duration) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	best := -1
	for i, t := range m.pending {
		if t.at > target {
			continue
		}
		if best == -1 || t.at < m.pending[best].at ||
			(t.at == m.pending[best].at && t.seq < m.pending[best].seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	task := m.pending[best]
	m.pending = append(m.pending[:best], m.pending[best+1:]...)
	task.ran = true
	if task.at > m.now {
		m.now = task.at
	}
	return task
}

func (t *manualTask) Stop() bool {
	m := t.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.stopped || t.ran {
		return false
	}
	t.stopped = true
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
	return true
}
