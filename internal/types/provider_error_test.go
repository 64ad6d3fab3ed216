package types

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNewProviderError_ClassifiesDeadline(t *testing.T) {
	err := NewProviderError("weather", ReasonNetwork, fmt.Errorf("get: %w", context.DeadlineExceeded))
	if err.Reason != ReasonTimeout {
		t.Fatalf("reason = %s, want %s", err.Reason, ReasonTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error")
	}
}

func TestNewProviderError_KeepsGivenReason(t *testing.T) {
	err := NewProviderError("maps", ReasonMalformed, errors.New("bad json"))
	if err.Reason != ReasonMalformed {
		t.Fatalf("reason = %s, want %s", err.Reason, ReasonMalformed)
	}
}

func TestFailureReasonOf(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", &ProviderError{Provider: "geocoder", Reason: ReasonOutsideRegion})
	if got := FailureReasonOf(wrapped); got != ReasonOutsideRegion {
		t.Fatalf("FailureReasonOf = %q", got)
	}
	if got := FailureReasonOf(errors.New("plain")); got != "" {
		t.Fatalf("FailureReasonOf(plain) = %q, want empty", got)
	}
}

func TestPointValid(t *testing.T) {
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 26.1445, Lng: 91.7362}, true},
		{Point{Lat: 90, Lng: 180}, true},
		{Point{Lat: 90.1, Lng: 0}, false},
		{Point{Lat: 0, Lng: -180.5}, false},
	}
	for _, tc := range cases {
		if got := tc.p.Valid(); got != tc.want {
			t.Errorf("%v.Valid() = %v, want %v", tc.p, got, tc.want)
		}
	}
}
