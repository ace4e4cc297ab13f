package model

import (
	"fmt"
	"strings"
)

// ErrorKind is the resolution failure taxonomy
type ErrorKind string

const (
	ErrMalformed              ErrorKind = "malformed"                // Classifier produced Unrecognized
	ErrNotFound               ErrorKind = "not_found"                // A specific lookup legitimately has no data
	ErrUpstreamUnavailable    ErrorKind = "upstream_unavailable"     // Transport-level retry exhaustion
	ErrAllStrategiesExhausted ErrorKind = "all_strategies_exhausted" // Every fallback strategy failed
)

// StrategyAttempt records one failed resolution strategy
type StrategyAttempt struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// ResolutionError is the structured failure surfaced to callers. Attempts is
// populated only for all_strategies_exhausted and lists every strategy tried.
type ResolutionError struct {
	Kind     ErrorKind         `json:"kind"`
	Detail   string            `json:"detail"`
	Attempts []StrategyAttempt `json:"attempts,omitempty"`
}

func (e *ResolutionError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, fmt.Sprintf("%s: %s", a.Strategy, a.Reason))
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Detail, strings.Join(reasons, "; "))
}

// NewResolutionError builds a ResolutionError without attempt details
func NewResolutionError(kind ErrorKind, format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
