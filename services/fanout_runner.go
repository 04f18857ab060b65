package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	apperrors "fanout-runner/errors"
	"fanout-runner/logging"
	"fanout-runner/metrics"
	"fanout-runner/models"
)

// Fixed shape of every fan-out invocation.
const (
	Language            = "Go"
	WorkerCount         = 10
	IterationsPerWorker = 100
	WaitTimeout         = 30 * time.Second
)

// Action is the unit of work a worker performs on each iteration. A non-nil
// error stops that worker early.
type Action func(workerID, iteration int) error

// FanoutRunner launches WorkerCount tasks on a fresh pool, waits on a
// countdown latch for at most WaitTimeout, and reports timing and status.
type FanoutRunner struct {
	pools   PoolProvider
	out     io.Writer
	action  Action
	timeout time.Duration
	logger  logging.Logger
	metrics *metrics.Metrics
}

// RunnerOption configures a FanoutRunner.
type RunnerOption func(*FanoutRunner)

// WithPoolProvider replaces the pool provider.
func WithPoolProvider(p PoolProvider) RunnerOption {
	return func(r *FanoutRunner) { r.pools = p }
}

// WithOutput sets where worker lines are written. Defaults to stdout.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *FanoutRunner) { r.out = w }
}

// WithAction replaces the per-iteration action.
func WithAction(a Action) RunnerOption {
	return func(r *FanoutRunner) { r.action = a }
}

// WithWaitTimeout overrides the barrier timeout. Production wiring never sets
// it; it exists so tests can exercise the timeout path quickly.
func WithWaitTimeout(d time.Duration) RunnerOption {
	return func(r *FanoutRunner) { r.timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *FanoutRunner) { r.logger = l }
}

// WithMetrics records invocation metrics.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *FanoutRunner) { r.metrics = m }
}

// NewFanoutRunner creates a runner with the fixed fan-out shape.
func NewFanoutRunner(opts ...RunnerOption) *FanoutRunner {
	r := &FanoutRunner{
		pools:   DefaultPoolProvider,
		out:     os.Stdout,
		timeout: WaitTimeout,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.action == nil {
		r.action = PrintAction(r.out)
	}
	return r
}

// PrintAction writes "Thread <id>: <n>" lines to w. Each line is a single
// write, so lines from different workers never interleave mid-line.
func PrintAction(w io.Writer) Action {
	lw := &lineWriter{w: w}
	return func(workerID, iteration int) error {
		return lw.line(fmt.Sprintf("Thread %d: %d\n", workerID, iteration))
	}
}

// Run performs one invocation. It never returns an error: orchestration
// failures become a failed response, worker failures are absorbed.
//
// A wait that times out still reports StatusCompleted; the response has no
// way to tell the two apart. The timeout is logged, counted, and annotated
// on the trace instead. Workers still running when the wait gives up keep
// running after Run returns.
func (r *FanoutRunner) Run(ctx context.Context, req models.InvocationRequest) (resp models.InvocationResponse) {
	start := time.Now()
	resp = models.InvocationResponse{
		Language:       Language,
		Threads:        WorkerCount,
		CountPerThread: IterationsPerWorker,
	}
	if r.metrics != nil {
		r.metrics.InvocationStarted()
	}

	defer func() {
		if p := recover(); p != nil {
			resp.Status = models.StatusFailed
			resp.Error = errorMessage(apperrors.NewOrchestrationError("panic", fmt.Errorf("%v", p)))
			resp.DurationMs = time.Since(start).Milliseconds()
			r.logger.Error("fan-out panicked", errors.New(resp.Error))
		}
		if r.metrics != nil {
			r.metrics.InvocationFinished(string(resp.Status), time.Since(start))
		}
	}()

	r.logger.Info("fan-out started",
		logging.Int("threads", WorkerCount),
		logging.Int("count_per_thread", IterationsPerWorker),
		logging.Int("event_keys", len(req.Event)))

	var allDone bool
	err := xray.Capture(ctx, "FanoutRunner.Run", func(ctx1 context.Context) error {
		var err error
		allDone, err = r.fanOut(ctx1)
		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddAnnotation("all_completed", allDone)
			seg.AddMetadata("fanout.threads", WorkerCount)
		}
		return err
	})

	resp.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		resp.Status = models.StatusFailed
		resp.Error = errorMessage(err)
		stage, _ := apperrors.StageOf(err)
		r.logger.Error("fan-out failed", err,
			logging.String("stage", stage),
			logging.Int64("duration_ms", resp.DurationMs))
		return resp
	}

	resp.Status = models.StatusCompleted
	r.logger.Info("fan-out finished",
		logging.Int64("duration_ms", resp.DurationMs),
		logging.Bool("all_completed", allDone))
	return resp
}

// fanOut creates the pool, submits the workers, and waits on the latch.
// It reports whether the latch opened before the wait gave up. Panics are
// converted to errors here because xray.Capture re-panics.
func (r *FanoutRunner) fanOut(ctx context.Context) (allDone bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			allDone, err = false, apperrors.NewOrchestrationError("panic", fmt.Errorf("%v", p))
		}
	}()

	pool, err := r.pools.NewPool(WorkerCount)
	if err != nil {
		return false, apperrors.NewOrchestrationError("pool", err)
	}
	defer pool.Shutdown()

	latch := NewCountdownLatch(WorkerCount)
	var interrupted atomic.Int32
	for id := 0; id < WorkerCount; id++ {
		if err := pool.Submit(r.worker(id, latch, &interrupted)); err != nil {
			return false, apperrors.NewOrchestrationError("submit", err)
		}
	}

	allDone = latch.Await(ctx, r.timeout)
	if !allDone {
		r.logger.Warn("barrier wait ended with workers outstanding",
			logging.Int64("outstanding", latch.Count()),
			logging.Duration("timeout", r.timeout))
		if r.metrics != nil {
			r.metrics.BarrierTimedOut()
		}
	}
	if n := interrupted.Load(); n > 0 {
		r.logger.Warn("workers interrupted", logging.Int("count", int(n)))
	}
	return allDone, nil
}

// worker builds the task for worker id. The latch is counted down on every
// exit path; errors and panics only mark the worker interrupted.
func (r *FanoutRunner) worker(id int, latch *CountdownLatch, interrupted *atomic.Int32) func() {
	return func() {
		defer latch.CountDown()
		defer func() {
			if p := recover(); p != nil {
				r.interrupt(id, fmt.Errorf("panic: %v", p), interrupted)
			}
		}()

		for i := 1; i <= IterationsPerWorker; i++ {
			if err := r.action(id, i); err != nil {
				r.interrupt(id, err, interrupted)
				return
			}
		}
	}
}

func (r *FanoutRunner) interrupt(id int, err error, interrupted *atomic.Int32) {
	interrupted.Add(1)
	if r.metrics != nil {
		r.metrics.WorkerInterrupted()
	}
	r.logger.Debug("worker interrupted", logging.Int("worker", id), logging.Err(err))
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}

type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lineWriter) line(s string) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := io.WriteString(lw.w, s)
	return err
}
