package atlas

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from an Atlassian API. Detail holds
// the server-supplied message when one could be extracted from the response
// body, otherwise the raw HTTP status text.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Title      string `json:"title"       yaml:"title"`
	Detail     string `json:"detail"      yaml:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Title, e.Detail, e.StatusCode)
	}

	return fmt.Sprintf("%s (status: %d)", e.Title, e.StatusCode)
}

// SchemaMismatchError reports a fetched document whose type tag disagrees
// with what the wrapper expected.
type SchemaMismatchError struct {
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("expected document of type %q, got %q", e.Expected, e.Actual)
}

// Static errors for local failures that never reach the network.
var (
	ErrNotOpen                 = errors.New("pull request is not open")
	ErrEmptyComment            = errors.New("comment message must not be empty")
	ErrInvalidMergeStrategy    = errors.New("merge strategy must be one of merge_commit, squash, fast_forward")
	ErrInvalidApprovalDecision = errors.New("approval decision must be approve or decline")
	ErrConfigRequired          = errors.New("config is required")
	ErrEndpointRequired        = errors.New("API endpoint is required")
	ErrNoMoreItems             = errors.New("no more items")
)

// IsNotFound checks whether the error is a server-reported absent resource.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}

	return false
}

// IsUnauthorized checks whether the error is an authentication failure.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}

	return false
}

// IsForbidden checks whether the error is an authorization failure.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}

	return false
}

// IsSchemaMismatch checks whether the error is a type tag mismatch raised at
// resource construction.
func IsSchemaMismatch(err error) bool {
	mismatch := &SchemaMismatchError{}

	return errors.As(err, &mismatch)
}

// IsInvalidState checks whether the error is a state precondition failure
// (for example merging a pull request whose cached state is not open).
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrNotOpen)
}

// IsInvalidArgument checks whether the error is a caller-supplied parameter
// outside its allowed set.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrEmptyComment) ||
		errors.Is(err, ErrInvalidMergeStrategy) ||
		errors.Is(err, ErrInvalidApprovalDecision)
}
