package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/redis/go-redis/v9"

	"fanout-runner/models"
)

const (
	QueueKey        = "execution_queue:fanout"
	ResultKeyPrefix = "result:"
	ResultTTL       = 10 * time.Minute
)

// ErrMalformedInvocation marks a queue entry that could not be decoded.
// The entry has already been removed from the queue.
var ErrMalformedInvocation = errors.New("malformed queued invocation")

type RedisService struct {
	client *redis.Client
}

func NewRedisService(addr string) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisService{client: client}
}

// PushInvocation pushes an async invocation onto the queue
func (r *RedisService) PushInvocation(ctx context.Context, inv *models.QueuedInvocation) error {
	return xray.Capture(ctx, "Redis.LPush", func(ctx1 context.Context) error {
		jsonData, err := json.Marshal(inv)
		if err != nil {
			return err
		}

		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.queue_key", QueueKey)
			seg.AddMetadata("redis.operation", "LPUSH")
		}

		return r.client.LPush(ctx1, QueueKey, string(jsonData)).Err()
	})
}

// PopInvocation blocks up to wait for the next queued invocation.
// It returns nil, nil when the wait elapses with the queue empty.
func (r *RedisService) PopInvocation(ctx context.Context, wait time.Duration) (*models.QueuedInvocation, error) {
	result, err := r.client.BRPop(ctx, wait, QueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// result[0] is the queue key, result[1] is the data
	var inv models.QueuedInvocation
	if err := json.Unmarshal([]byte(result[1]), &inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInvocation, err)
	}
	return &inv, nil
}

// StoreResult saves a finished invocation's response with ResultTTL
func (r *RedisService) StoreResult(ctx context.Context, result *models.InvocationResult) error {
	return xray.Capture(ctx, "Redis.Set", func(ctx1 context.Context) error {
		jsonData, err := json.Marshal(result)
		if err != nil {
			return err
		}
		key := ResultKeyPrefix + result.InvocationID

		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.key", key)
			seg.AddMetadata("redis.operation", "SET")
		}

		return r.client.Set(ctx1, key, jsonData, ResultTTL).Err()
	})
}

// GetResult retrieves the stored result for an invocation ID.
// It returns nil, nil while the result is not yet available.
func (r *RedisService) GetResult(ctx context.Context, invocationID string) (*models.InvocationResult, error) {
	var result *models.InvocationResult

	err := xray.Capture(ctx, "Redis.Get", func(ctx1 context.Context) error {
		key := ResultKeyPrefix + invocationID
		jsonData, err := r.client.Get(ctx1, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var stored models.InvocationResult
		if err := json.Unmarshal([]byte(jsonData), &stored); err != nil {
			return err
		}
		result = &stored

		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.key", key)
			seg.AddMetadata("redis.operation", "GET")
		}
		return nil
	})

	return result, err
}

// Ping checks Redis connection
func (r *RedisService) Ping(ctx context.Context) error {
	return xray.Capture(ctx, "Redis.Ping", func(ctx1 context.Context) error {
		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.operation", "PING")
		}
		return r.client.Ping(ctx1).Err()
	})
}

// Close releases the client's connections
func (r *RedisService) Close() error {
	return r.client.Close()
}
