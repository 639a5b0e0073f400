package game

import (
	"sync"
	"time"
)

// manualScheduler is a deterministic Scheduler for tests: time only moves
// when Advance is called and due callbacks run synchronously on the
// caller's goroutine, in schedule order.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	tasks  map[int]*manualTask
}

type manualTask struct {
	id        int
	at        time.Time
	interval  time.Duration
	repeating bool
	fn        func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{
		now:   time.Unix(1700000000, 0),
		tasks: make(map[int]*manualTask),
	}
}

func (m *manualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualScheduler) ScheduleOnce(delay time.Duration, fn func()) CancelFunc {
	return m.add(delay, 0, false, fn)
}

func (m *manualScheduler) ScheduleRepeating(interval time.Duration, fn func()) CancelFunc {
	return m.add(interval, interval, true, fn)
}

func (m *manualScheduler) add(delay, interval time.Duration, repeating bool, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.tasks[id] = &manualTask{
		id:        id,
		at:        m.now.Add(delay),
		interval:  interval,
		repeating: repeating,
		fn:        fn,
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.tasks, id)
	}
}

// Advance moves the clock forward, firing every due callback in time order
// (insertion order on ties). Callbacks may schedule or cancel tasks.
func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		var next *manualTask
		for _, task := range m.tasks {
			if task.at.After(target) {
				continue
			}
			if next == nil || task.at.Before(next.at) || (task.at.Equal(next.at) && task.id < next.id) {
				next = task
			}
		}
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		if next.at.After(m.now) {
			m.now = next.at
		}
		if next.repeating {
			next.at = next.at.Add(next.interval)
		} else {
			delete(m.tasks, next.id)
		}
		fn := next.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
}

// pendingCount reports how many schedules are live; used to assert cleanup.
func (m *manualScheduler) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
