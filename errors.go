// Package main - errors.go
//
// This file defines the bot's error taxonomy.
//
// Control-surface failures are sentinel values so callers can compare with
// errors.Is. Failures inside an automation tick are wrapped in a TickError
// carrying an explicit kind, so the loop's log-and-continue policy can show
// which path a failure took and tests can assert on it:
//
//   - Perception: capture or image conversion failed; recovered locally
//     with fail-safe values, the tick retries after a short sleep
//   - Injection: a key press or click was not delivered; logged, never
//     retried mid-action
//   - Unexpected: anything else, including recovered panics; logged with
//     context, the loop sleeps 1s and retries the current phase
package main

import (
	"errors"
	"fmt"
)

// Control-surface sentinel errors
var (
	ErrAlreadyRunning    = errors.New("automation already running")
	ErrNotRunning        = errors.New("automation not running")
	ErrSkillRegionNotSet = errors.New("skill bar region not configured")
)

// TickErrorKind classifies a failure inside one automation tick
type TickErrorKind int

const (
	ErrKindPerception TickErrorKind = iota
	ErrKindInjection
	ErrKindUnexpected
)

// String returns the display name of the error kind
func (k TickErrorKind) String() string {
	switch k {
	case ErrKindPerception:
		return "perception"
	case ErrKindInjection:
		return "injection"
	default:
		return "unexpected"
	}
}

// TickError wraps a tick failure with its classification
type TickError struct {
	Kind TickErrorKind
	Err  error
}

// Error implements the error interface
func (e *TickError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying error to errors.Is/As
func (e *TickError) Unwrap() error {
	return e.Err
}

// classifyTickError wraps err with the given kind, preserving an existing
// classification if err is already a TickError
func classifyTickError(kind TickErrorKind, err error) *TickError {
	var te *TickError
	if errors.As(err, &te) {
		return te
	}
	return &TickError{Kind: kind, Err: err}
}
