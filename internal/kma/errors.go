package kma

import "fmt"

// ErrorKind classifies upstream failures for callers that only need the
// broad category.
type ErrorKind string

const (
	// KindUnavailable covers network failures, timeouts, and upstream
	// server errors.
	KindUnavailable ErrorKind = "upstream_unavailable"
	// KindFormat covers non-success envelope codes, undecodable
	// responses, and empty item lists.
	KindFormat ErrorKind = "upstream_format"
)

// UpstreamError is the structured error value the fetcher returns for every
// failure mode. Nothing is written to the store when one is returned.
type UpstreamError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kma %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("kma %s: %s", e.Kind, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func unavailable(message string, err error) *UpstreamError {
	return &UpstreamError{Kind: KindUnavailable, Message: message, Err: err}
}

func formatError(message string, err error) *UpstreamError {
	return &UpstreamError{Kind: KindFormat, Message: message, Err: err}
}
