package apperrors

import (
	"errors"
	"fmt"
)

// ErrQueueDisabled is returned by operations that need the Redis queue
// transport when it has not been configured.
var ErrQueueDisabled = errors.New("invocation queue is disabled")

// ConfigError represents an invalid configuration value. The process cannot
// start until the value is corrected.
type ConfigError struct {
	// Key is the environment variable holding the bad value.
	Key string
	// Message explains what is wrong with it.
	Message string
}

// Error returns a formatted message naming the offending key.
func (e ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(key, format string, a ...any) error {
	return ConfigError{Key: key, Message: fmt.Sprintf(format, a...)}
}

// OrchestrationError is a failure in the coordinating logic of an invocation
// (pool setup, task submission, the barrier wait) as opposed to a failure
// inside an individual worker.
//
// Error returns the cause's message unchanged, since that text is what
// callers see in the response's error field.
type OrchestrationError struct {
	// Stage names the orchestration step that failed, e.g. "pool".
	Stage string
	// Cause is the underlying error.
	Cause error
}

// Error returns the message of the underlying cause.
func (e OrchestrationError) Error() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e OrchestrationError) Unwrap() error { return e.Cause }

// NewOrchestrationError wraps cause with the failing stage. A nil cause
// yields nil.
func NewOrchestrationError(stage string, cause error) error {
	if cause == nil {
		return nil
	}
	return OrchestrationError{Stage: stage, Cause: cause}
}

// StageOf returns the stage of the OrchestrationError wrapped by err, if any.
func StageOf(err error) (string, bool) {
	var oe OrchestrationError
	if !errors.As(err, &oe) {
		return "", false
	}
	return oe.Stage, true
}
