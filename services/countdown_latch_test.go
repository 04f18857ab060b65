package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCountdownLatch_OpensAtZero(t *testing.T) {
	l := NewCountdownLatch(2)
	if l.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", l.Count())
	}

	l.CountDown()
	select {
	case <-l.Done():
		t.Fatal("latch opened after one of two count-downs")
	default:
	}

	l.CountDown()
	select {
	case <-l.Done():
	default:
		t.Fatal("latch should be open after two count-downs")
	}
	if !l.Await(context.Background(), time.Millisecond) {
		t.Error("Await on an open latch should return true")
	}
}

func TestCountdownLatch_CountDownPastZeroIsIgnored(t *testing.T) {
	l := NewCountdownLatch(1)
	l.CountDown()
	l.CountDown()
	l.CountDown()
	if l.Count() != 0 {
		t.Errorf("Count() = %d, want 0", l.Count())
	}
}

func TestCountdownLatch_NonPositiveIsOpen(t *testing.T) {
	for _, n := range []int{0, -3} {
		l := NewCountdownLatch(n)
		if !l.Await(context.Background(), time.Millisecond) {
			t.Errorf("NewCountdownLatch(%d) should start open", n)
		}
	}
}

func TestCountdownLatch_AwaitTimeout(t *testing.T) {
	l := NewCountdownLatch(1)

	start := time.Now()
	if l.Await(context.Background(), 20*time.Millisecond) {
		t.Fatal("Await should time out with one count-down outstanding")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Await returned after %v, before the timeout", elapsed)
	}
	if l.Count() != 1 {
		t.Errorf("timeout must not change the count, got %d", l.Count())
	}
}

func TestCountdownLatch_AwaitContextCanceled(t *testing.T) {
	l := NewCountdownLatch(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if l.Await(ctx, time.Minute) {
		t.Fatal("Await should report false when ctx is done")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Await ignored the canceled context")
	}
}

func TestCountdownLatch_TenConcurrentWorkers(t *testing.T) {
	l := NewCountdownLatch(10)
	barrier := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			<-barrier
			l.CountDown()
		}()
	}
	close(barrier)
	wg.Wait()

	if l.Count() != 0 {
		t.Fatalf("Count() = %d after 10 count-downs, want 0", l.Count())
	}
	if !l.Await(context.Background(), time.Second) {
		t.Error("latch should be open")
	}
}

// TestCountdownLatch_Property checks that n concurrent participants always
// drive the latch to exactly zero, and that surplus count-downs never push
// it below zero.
func TestCountdownLatch_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("n concurrent count-downs open the latch", prop.ForAll(
		func(n, surplus int) bool {
			l := NewCountdownLatch(n)
			var wg sync.WaitGroup
			start := make(chan struct{})

			total := n + surplus
			wg.Add(total)
			for i := 0; i < total; i++ {
				go func() {
					defer wg.Done()
					<-start
					l.CountDown()
				}()
			}
			close(start)
			wg.Wait()

			if l.Count() != 0 {
				t.Logf("n=%d surplus=%d: count=%d", n, surplus, l.Count())
				return false
			}
			select {
			case <-l.Done():
				return true
			default:
				return false
			}
		},
		gen.IntRange(1, 64),
		gen.IntRange(0, 8),
	))

	properties.Property("n-1 count-downs leave exactly one outstanding", prop.ForAll(
		func(n int) bool {
			l := NewCountdownLatch(n)
			var wg sync.WaitGroup
			wg.Add(n - 1)
			for i := 0; i < n-1; i++ {
				go func() {
					defer wg.Done()
					l.CountDown()
				}()
			}
			wg.Wait()
			return l.Count() == 1 && !l.Await(context.Background(), time.Millisecond)
		},
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
