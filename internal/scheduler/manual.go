package scheduler

import (
	"sync"
	"time"

	"github.com/veribee/demoreel/internal/domain"
)

// Manual is a virtual clock. Nothing fires until Advance is called, and then
// every due firing runs on the caller's goroutine in due-time order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

// NewManual creates a virtual clock at time zero
func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	m      *Manual
	id     int
	period time.Duration
	next   time.Duration
	fn     func()
}

// Every registers fn to run each time the virtual clock crosses a multiple of d
// measured from now. Non-positive periods never fire.
func (m *Manual) Every(d time.Duration, fn func()) domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	task := &manualTask{m: m, id: m.seq, period: d, next: m.now + d, fn: fn}
	if d > 0 {
		m.tasks = append(m.tasks, task)
	}
	return task
}

// Advance moves the clock forward by d, firing due tasks along the way.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.nextDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next += due.period
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest task due at or before target. Ties go to the
// task registered first. Caller holds m.mu.
func (m *Manual) nextDue(target time.Duration) *manualTask {
	var due *manualTask
	for _, t := range m.tasks {
		if t.next > target {
			continue
		}
		if due == nil || t.next < due.next || (t.next == due.next && t.id < due.id) {
			due = t
		}
	}
	return due
}

// Now returns the virtual time elapsed since the clock was created
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of live tasks
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (t *manualTask) Cancel() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	for i, other := range t.m.tasks {
		if other == t {
			t.m.tasks = append(t.m.tasks[:i], t.m.tasks[i+1:]...)
			return
		}
	}
}
