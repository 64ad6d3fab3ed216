// README: Failure type returned by every third-party provider adapter.
package types

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureReason names why a provider call did not produce a usable answer.
type FailureReason string

const (
	ReasonTimeout       FailureReason = "timeout"
	ReasonNetwork       FailureReason = "network"
	ReasonStatus        FailureReason = "status"
	ReasonMalformed     FailureReason = "malformed"
	ReasonNoResult      FailureReason = "no_result"
	ReasonOutsideRegion FailureReason = "outside_region"
)

// ProviderError is what adapters return instead of a bare error so that callers
// can branch on Reason when picking a fallback.
type ProviderError struct {
	Provider string
	Reason   FailureReason
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError classifies err as a timeout or network failure when it can,
// falling back to the given reason.
func NewProviderError(provider string, reason FailureReason, err error) *ProviderError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		reason = ReasonTimeout
	case errors.As(err, &netErr):
		reason = ReasonNetwork
	}
	return &ProviderError{Provider: provider, Reason: reason, Err: err}
}

// FailureReasonOf extracts the reason from err, or "" if err is not a ProviderError.
func FailureReasonOf(err error) FailureReason {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
