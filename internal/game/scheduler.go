package game

import (
	"sync"
	"time"
)

// CancelFunc cancels a scheduled callback. Calling it more than once is safe.
type CancelFunc func()

// Scheduler abstracts wall-clock scheduling so the engine can run against a
// virtual clock in tests. Cancellation never blocks on a callback that is
// already in flight; stale callbacks are filtered by the caller's
// generation token instead.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) CancelFunc
	ScheduleRepeating(interval time.Duration, fn func()) CancelFunc
	Now() time.Time
}

type wallScheduler struct{}

// NewWallScheduler returns the production scheduler backed by the time package.
func NewWallScheduler() Scheduler {
	return wallScheduler{}
}

func (wallScheduler) Now() time.Time {
	return time.Now()
}

func (wallScheduler) ScheduleOnce(delay time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

func (wallScheduler) ScheduleRepeating(interval time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
