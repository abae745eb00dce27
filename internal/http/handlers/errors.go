// Package handlers defines the HTTP-layer error codes used across endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them, not on
// the human-readable message. Generic codes mirror common HTTP status
// semantics; the domain-specific ones cover failures the status alone cannot
// convey.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
