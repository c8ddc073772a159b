package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "transition", err: &casefile.TransitionError{From: workflow.StatusDraft, Action: "x", Allowed: []string{"y"}}, code: "ILLEGAL_TRANSITION"},
		{name: "wrapped transition", err: fmt.Errorf("applying: %w", casefile.ErrIllegalTransition), code: "ILLEGAL_TRANSITION"},
		{name: "conflict", err: casefile.ErrConflict, code: "CONFLICT"},
		{name: "case not found", err: casefile.ErrCaseNotFound, code: "CASE_NOT_FOUND"},
		{name: "team not found", err: team.ErrTeamNotFound, code: "TEAM_NOT_FOUND"},
		{name: "validation", err: &casefile.ValidationError{Field: "title", Reason: "required"}, code: "INVALID_INPUT"},
		{name: "storage", err: fmt.Errorf("listing: %w", casefile.ErrStorage), code: "INTERNAL"},
		{name: "unknown", err: errors.New("boom"), code: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := MapError(tt.err)
			require.NotNil(t, apiErr)
			require.Equal(t, tt.code, apiErr.Code)
		})
	}

	require.Nil(t, MapError(nil))
}

func TestMapError_TransitionDetails(t *testing.T) {
	apiErr := MapError(&casefile.TransitionError{
		From:    workflow.StatusSentToClient,
		Action:  "Complete Case",
		Allowed: workflow.ActionsFor(workflow.StatusSentToClient),
	})

	details, ok := apiErr.Details.(map[string]any)
	require.True(t, ok)
	require.Equal(t, workflow.StatusSentToClient, details["status"])
	require.Len(t, details["allowed"], 2)
	require.Contains(t, apiErr.Error(), "current_actions")
}
