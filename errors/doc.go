// Package apperrors defines the error types shared by the fan-out runner,
// its hosting surfaces, and the configuration loader.
package apperrors
