package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the analytics engine. Services wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify with errors.Is.
var (
	// ErrNotFound indicates a required upstream record (snapshot, risk
	// metrics, goal) is missing. Fatal to the calling operation.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed numeric or date parameters,
	// rejected before any computation starts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a portfolio state transition not
	// permitted by the transition table.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidInputf wraps ErrInvalidInput with a formatted message.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// InvalidTransitionf wraps ErrInvalidTransition with a formatted message.
func InvalidTransitionf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidTransition)...)
}
