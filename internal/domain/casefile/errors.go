package casefile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

var (
	// ErrIllegalTransition indicates the action is not valid for the case's status.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrConflict indicates the case was modified concurrently.
	ErrConflict = errors.New("case modified concurrently")
	// ErrInvalidInput indicates malformed input.
	ErrInvalidInput = errors.New("invalid case input")
	// ErrCaseNotFound indicates the case doesn't exist.
	ErrCaseNotFound = errors.New("case not found")
	// ErrStorage indicates the underlying store failed.
	ErrStorage = errors.New("storage failure")
)

// TransitionError details a rejected action.
type TransitionError struct {
	From    workflow.Status
	Action  string
	Allowed []string
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("illegal transition: %q from %s (status is terminal)", e.Action, e.From)
	}
	return fmt.Sprintf("illegal transition: %q from %s (allowed: %s)", e.Action, e.From, strings.Join(e.Allowed, ", "))
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
