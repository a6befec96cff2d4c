package server

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/query"
	"github.com/runnerr0/stringlab/internal/storage"
)

// Sentinel errors for request validation at the HTTP boundary.
var (
	// ErrMalformedBody indicates the request body is not a JSON object.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrBodyTooLarge indicates the request body exceeded server.max_request_size.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrMissingValue indicates the value field or path parameter is absent.
	ErrMissingValue = errors.New("value is required")

	// ErrInvalidType indicates the value field is not a JSON string.
	ErrInvalidType = errors.New("value must be a string")

	// ErrRateLimited indicates the server-wide request rate was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// apiError describes how one error kind is rendered.
type apiError struct {
	status  int
	kind    string
	message string // fixed client message; empty means use err.Error()
}

var errorKinds = []struct {
	target error
	apiError
}{
	{ErrMalformedBody, apiError{http.StatusBadRequest, "invalid_body", "Request body must be a JSON object"}},
	{ErrBodyTooLarge, apiError{http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large"}},
	{ErrMissingValue, apiError{http.StatusUnprocessableEntity, "missing_value", "'value' field is required"}},
	{ErrInvalidType, apiError{http.StatusUnprocessableEntity, "invalid_type", "'value' must be a string"}},
	{ErrRateLimited, apiError{http.StatusTooManyRequests, "rate_limited", "Too many requests"}},
	{storage.ErrInvalidValue, apiError{http.StatusUnprocessableEntity, "invalid_value", "String cannot be empty"}},
	{storage.ErrAlreadyExists, apiError{http.StatusConflict, "already_exists", "String already exists"}},
	{storage.ErrNotFound, apiError{http.StatusNotFound, "not_found", "String not found"}},
	{query.ErrInvalidFilter, apiError{http.StatusBadRequest, "invalid_filter", ""}},
	{query.ErrUnrecognizedPhrase, apiError{http.StatusBadRequest, "unrecognized_phrase", "Unable to parse natural language query"}},
	{query.ErrEmptyResult, apiError{http.StatusNotFound, "empty_result", "No strings found matching the criteria"}},
}

var internalError = apiError{http.StatusInternalServerError, "internal_error", "Internal Server Error"}

// classify maps err onto its client-facing rendering. Errors outside the
// known kinds are internal.
func classify(err error) apiError {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			e := k.apiError
			if e.message == "" {
				e.message = err.Error()
			}
			return e
		}
	}
	return internalError
}
