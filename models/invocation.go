package models

// InvocationStatus is the final status reported for an invocation
type InvocationStatus string

// InvocationStatus constants
const (
	StatusCompleted InvocationStatus = "completed"
	StatusFailed    InvocationStatus = "failed"
	StatusPending   InvocationStatus = "pending"
)

// InvocationRequest carries the caller's event. The runner never inspects it.
type InvocationRequest struct {
	Event map[string]interface{} `json:"event,omitempty"`
}

// InvocationResponse is the result of one fan-out invocation
type InvocationResponse struct {
	Language       string           `json:"language"`
	Threads        int              `json:"threads"`
	CountPerThread int              `json:"count_per_thread"`
	DurationMs     int64            `json:"duration_ms"`
	Status         InvocationStatus `json:"status"`
	Error          string           `json:"error,omitempty"`
}

// Failed reports whether the orchestration itself failed
func (r InvocationResponse) Failed() bool {
	return r.Status == StatusFailed
}
