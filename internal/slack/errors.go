// Package slack implements a thin client for the Slack Web API and the
// Events API payloads. It owns cursor pagination, per-process lookup caching,
// and webhook classification; callers above it never see page boundaries or
// the response envelope.
package slack

import "fmt"

// APIError is returned when the Slack Web API answers with ok:false. It is
// fatal to the enclosing fetch: pagination is not retried internally, the
// next scheduled pass is the retry mechanism.
type APIError struct {
	// Entry is the API method that failed, e.g. "conversations.history".
	Entry string
	// Reason is the error string from the response body.
	Reason string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s: %s", e.Entry, e.Reason)
}
