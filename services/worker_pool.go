//go:generate mockgen -source=worker_pool.go -destination=mocks/mock_pool.go -package=mocks

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrPoolShutdown is returned by Submit once the pool stopped accepting work.
var ErrPoolShutdown = errors.New("worker pool is shut down")

// Pool runs submitted tasks with bounded concurrency.
type Pool interface {
	// Submit queues task for execution. It does not block on capacity.
	Submit(task func()) error
	// Shutdown stops accepting new tasks. Tasks already submitted keep running.
	Shutdown()
}

// PoolProvider creates a pool per invocation.
type PoolProvider interface {
	NewPool(size int) (Pool, error)
}

// PoolProviderFunc adapts a function to PoolProvider.
type PoolProviderFunc func(size int) (Pool, error)

// NewPool calls f.
func (f PoolProviderFunc) NewPool(size int) (Pool, error) { return f(size) }

// DefaultPoolProvider builds WorkerPools.
var DefaultPoolProvider PoolProvider = PoolProviderFunc(func(size int) (Pool, error) {
	return NewWorkerPool(size)
})

// WorkerPool is a fixed-size pool: at most size tasks run at once, the rest
// wait for a slot.
type WorkerPool struct {
	size int
	sem  *semaphore.Weighted

	mu       sync.RWMutex
	shutdown bool
	running  sync.WaitGroup
}

// NewWorkerPool creates a pool with size slots.
func NewWorkerPool(size int) (*WorkerPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("worker pool size must be positive, got %d", size)
	}
	return &WorkerPool{
		size: size,
		sem:  semaphore.NewWeighted(int64(size)),
	}, nil
}

func (p *WorkerPool) Submit(task func()) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.shutdown {
		return ErrPoolShutdown
	}

	p.running.Add(1)
	go func() {
		defer p.running.Done()
		// Acquire with a background context never fails.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		task()
	}()
	return nil
}

func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	p.mu.Unlock()
}

// isShutdown reports whether Shutdown has been called.
func (p *WorkerPool) isShutdown() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shutdown
}

// awaitTermination waits for every submitted task to return, up to timeout.
// It reports whether they all did. Call it only after Shutdown.
func (p *WorkerPool) awaitTermination(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		p.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
