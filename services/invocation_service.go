package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "fanout-runner/errors"
	"fanout-runner/models"
)

// InvocationQueue is the queue transport used for async invocations.
// *RedisService implements it.
type InvocationQueue interface {
	PushInvocation(ctx context.Context, inv *models.QueuedInvocation) error
	GetResult(ctx context.Context, invocationID string) (*models.InvocationResult, error)
}

type InvocationService struct {
	runner *FanoutRunner
	queue  InvocationQueue
}

// NewInvocationService wires the runner and, optionally, a queue. A nil
// queue disables async invocations.
func NewInvocationService(runner *FanoutRunner, queue InvocationQueue) *InvocationService {
	return &InvocationService{
		runner: runner,
		queue:  queue,
	}
}

// QueueEnabled reports whether async invocations are available
func (s *InvocationService) QueueEnabled() bool {
	return s.queue != nil
}

// Invoke runs the fan-out synchronously
func (s *InvocationService) Invoke(ctx context.Context, event map[string]interface{}) models.InvocationResponse {
	return s.runner.Run(ctx, models.InvocationRequest{Event: event})
}

// Enqueue pushes an async invocation and returns it with its new ID
func (s *InvocationService) Enqueue(ctx context.Context, event map[string]interface{}) (*models.QueuedInvocation, error) {
	if s.queue == nil {
		return nil, apperrors.ErrQueueDisabled
	}
	if event == nil {
		event = map[string]interface{}{}
	}

	inv := &models.QueuedInvocation{
		InvocationID: uuid.New().String(),
		Event:        event,
	}
	if err := s.queue.PushInvocation(ctx, inv); err != nil {
		return nil, fmt.Errorf("enqueue invocation %s: %w", inv.InvocationID, err)
	}
	return inv, nil
}

// GetResult returns the stored result, or nil while it is still pending
func (s *InvocationService) GetResult(ctx context.Context, invocationID string) (*models.InvocationResult, error) {
	if s.queue == nil {
		return nil, apperrors.ErrQueueDisabled
	}
	if _, err := uuid.Parse(invocationID); err != nil {
		return nil, fmt.Errorf("invalid invocation id %q: %w", invocationID, err)
	}
	return s.queue.GetResult(ctx, invocationID)
}
