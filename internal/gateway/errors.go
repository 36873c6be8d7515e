package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a synthesis failure
type Kind int

const (
	// KindValidation: the caller supplied fewer than two mechanisms
	KindValidation Kind = iota + 1
	// KindConfiguration: no upstream credential on the server
	KindConfiguration
	// KindUpstream: the model service answered with a non-success status
	KindUpstream
	// KindTransport: network or decode fault
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Retryable reports whether a user retry could succeed
func (k Kind) Retryable() bool {
	return k == KindUpstream || k == KindTransport
}

// Error is a synthesis failure carrying the message shown to the user
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Messages used when no better one is available
const (
	MsgTooFewMechanisms = "At least 2 mechanisms required"
	MsgNoAPIKey         = "API key not configured"
	MsgUpstreamFailed   = "API request failed"
	MsgSynthesisFailed  = "Synthesis failed"
)

// StatusOf maps err to an HTTP status, defaulting to 500
func StatusOf(err error) int {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Status != 0 {
		return gerr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message for err
func MessageOf(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return MsgSynthesisFailed
}

// KindFromStatus classifies an error status seen by an API client.
// The server flattens every other failure to {error}, so only 400 is distinct.
func KindFromStatus(status int) Kind {
	if status == http.StatusBadRequest {
		return KindValidation
	}
	return KindUpstream
}
