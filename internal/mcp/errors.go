package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unrecognized errors
// become INTERNAL without leaking their text.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var terr *casefile.TransitionError
	switch {
	case errors.As(err, &terr):
		return &APIError{
			Code:         "ILLEGAL_TRANSITION",
			Message:      terr.Error(),
			Details:      map[string]any{"status": terr.From, "allowed": terr.Allowed},
			RecoveryHint: "Call current_actions and pick one of the allowed actions",
		}
	case errors.Is(err, casefile.ErrIllegalTransition):
		return &APIError{Code: "ILLEGAL_TRANSITION", Message: err.Error(), RecoveryHint: "Call current_actions"}
	case errors.Is(err, casefile.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "case modified concurrently", RecoveryHint: "Reload the case and retry"}
	case errors.Is(err, casefile.ErrCaseNotFound):
		return &APIError{Code: "CASE_NOT_FOUND", Message: "case not found", RecoveryHint: "Check the case id with list_cases"}
	case errors.Is(err, team.ErrTeamNotFound):
		return &APIError{Code: "TEAM_NOT_FOUND", Message: "team not found", RecoveryHint: "Call list_teams for valid names"}
	case errors.Is(err, casefile.ErrInvalidInput), errors.Is(err, team.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return &APIError{Code: "INTERNAL", Message: "internal error", RecoveryHint: "Retry later"}
	}
}
