package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CountdownLatch releases waiters once Count reaches zero. Each participant
// calls CountDown once; calls past zero are ignored.
type CountdownLatch struct {
	count atomic.Int64
	done  chan struct{}
	once  sync.Once
}

// NewCountdownLatch creates a latch expecting n count-downs. A latch created
// with n <= 0 is already open.
func NewCountdownLatch(n int) *CountdownLatch {
	l := &CountdownLatch{done: make(chan struct{})}
	if n <= 0 {
		l.open()
		return l
	}
	l.count.Store(int64(n))
	return l
}

// CountDown decrements the count, opening the latch when it reaches zero.
func (l *CountdownLatch) CountDown() {
	for {
		cur := l.count.Load()
		if cur <= 0 {
			return
		}
		if l.count.CompareAndSwap(cur, cur-1) {
			if cur == 1 {
				l.open()
			}
			return
		}
	}
}

// Count returns the number of outstanding count-downs.
func (l *CountdownLatch) Count() int64 {
	return l.count.Load()
}

// Done returns a channel closed when the latch opens.
func (l *CountdownLatch) Done() <-chan struct{} {
	return l.done
}

// Await blocks until the latch opens, timeout elapses, or ctx is done. It
// returns true only if the latch opened.
func (l *CountdownLatch) Await(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	done := l.Done()
	select {
	case <-done:
		return true
	case <-timer.C:
	case <-ctx.Done():
	}
	// Prefer reporting an open latch when it raced with the timer.
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func (l *CountdownLatch) open() {
	l.once.Do(func() { close(l.done) })
}
