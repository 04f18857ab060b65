// Package logging provides the structured logger used across the runner,
// the hosting surfaces, and the queue worker. It hides zerolog behind a small
// interface so components can be tested against a buffer.
package logging
