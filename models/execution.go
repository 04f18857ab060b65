package models

// QueuedInvocation is an async invocation pushed to the Redis queue
type QueuedInvocation struct {
	InvocationID string                 `json:"invocation_id"`
	Event        map[string]interface{} `json:"event"`
}

// InvocationResult is what the queue worker stores for a finished invocation
type InvocationResult struct {
	InvocationID string             `json:"invocation_id"`
	Response     InvocationResponse `json:"response"`
}

// EnqueueResponse is returned when an async invocation is accepted
type EnqueueResponse struct {
	InvocationID string           `json:"invocation_id"`
	Status       InvocationStatus `json:"status"`
}
