// Package services implements the reconciliation engine: the poll-mode full
// re-scan, the drain-mode processing of queued webhook tasks, and the
// read-side queries for the archive API. This file centralizes service-level
// error values so callers can branch on them consistently.
package services

import "errors"

var (
	// ErrUnknownTask is returned when a drained task carries a kind the
	// engine does not recognize. The task has already been removed from the
	// queue; it is logged and dropped.
	ErrUnknownTask = errors.New("unknown task kind")

	// ErrEmptyTask is returned when a task's tag and payload disagree
	// (e.g. a message task without a message).
	ErrEmptyTask = errors.New("task payload missing")
)
