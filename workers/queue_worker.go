// Package workers hosts the queue transport: a long-running consumer that
// pops async invocations from Redis, runs them, and stores their results.
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	"fanout-runner/logging"
	"fanout-runner/models"
	"fanout-runner/services"
)

// PollInterval bounds each BRPOP so Stop is noticed promptly.
const PollInterval = 5 * time.Second

// DefaultSegmentName names the X-Ray segment opened for each job.
const DefaultSegmentName = "fanout-worker"

// Queue is the subset of the Redis service the worker needs.
type Queue interface {
	PopInvocation(ctx context.Context, wait time.Duration) (*models.QueuedInvocation, error)
	StoreResult(ctx context.Context, result *models.InvocationResult) error
}

// Runner runs one invocation. *services.FanoutRunner implements it.
type Runner interface {
	Run(ctx context.Context, req models.InvocationRequest) models.InvocationResponse
}

var _ Runner = (*services.FanoutRunner)(nil)

type QueueWorker struct {
	queue   Queue
	runner  Runner
	logger  logging.Logger
	poll    time.Duration
	errWait time.Duration
	segment string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WorkerOption configures a QueueWorker.
type WorkerOption func(*QueueWorker)

// WithSegmentName sets the X-Ray segment name used for each job.
func WithSegmentName(name string) WorkerOption {
	return func(w *QueueWorker) {
		if name != "" {
			w.segment = name
		}
	}
}

func NewQueueWorker(queue Queue, runner Runner, logger logging.Logger, opts ...WorkerOption) *QueueWorker {
	w := &QueueWorker{
		queue:   queue,
		runner:  runner,
		logger:  logger,
		poll:    PollInterval,
		errWait: time.Second,
		segment: DefaultSegmentName,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the consume loop. It returns immediately.
func (w *QueueWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("queue worker started", logging.String("queue", services.QueueKey))
		for {
			if ctx.Err() != nil {
				w.logger.Info("queue worker stopped")
				return
			}
			w.processNext(ctx)
		}
	}()
}

// Stop cancels the loop and waits for the in-flight invocation to finish.
func (w *QueueWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// Run starts the worker and blocks until ctx is done.
func (w *QueueWorker) Run(ctx context.Context) error {
	w.Start(ctx)
	<-ctx.Done()
	w.Stop()
	return nil
}

func (w *QueueWorker) processNext(ctx context.Context) {
	inv, err := w.queue.PopInvocation(ctx, w.poll)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		if errors.Is(err, services.ErrMalformedInvocation) {
			w.logger.Warn("skipping undecodable invocation", logging.Err(err))
			return
		}
		w.logger.Error("error reading from queue", err)
		// Back off so a dead Redis does not spin the loop.
		select {
		case <-ctx.Done():
		case <-time.After(w.errWait):
		}
		return
	}
	if inv == nil {
		return // poll timeout, no job available
	}

	w.logger.Info("processing invocation", logging.String("invocation_id", inv.InvocationID))

	// The run itself is not cut short by Stop. Each job gets its own
	// segment; nothing upstream of the queue carries a trace.
	runCtx, seg := xray.BeginSegment(context.WithoutCancel(ctx), w.segment)
	if seg != nil {
		seg.AddAnnotation("invocation_id", inv.InvocationID)
	}

	resp := w.runner.Run(runCtx, models.InvocationRequest{Event: inv.Event})
	if seg != nil {
		seg.AddAnnotation("status", string(resp.Status))
	}

	result := &models.InvocationResult{InvocationID: inv.InvocationID, Response: resp}
	err = w.queue.StoreResult(runCtx, result)
	if seg != nil {
		seg.Close(err)
	}
	if err != nil {
		w.logger.Error("error storing result", err, logging.String("invocation_id", inv.InvocationID))
		return
	}

	w.logger.Info("finished invocation",
		logging.String("invocation_id", inv.InvocationID),
		logging.String("status", string(resp.Status)))
}
