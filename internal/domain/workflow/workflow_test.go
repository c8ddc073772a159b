package workflow_test

import (
	"testing"

	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/stretchr/testify/require"
)

func TestLookup_EveryTableEntry(t *testing.T) {
	for _, tr := range workflow.Transitions() {
		got, ok := workflow.Lookup(tr.From, tr.Action)
		require.True(t, ok, "%s / %s", tr.From, tr.Action)
		require.Equal(t, tr, got)
	}
}

func TestLookup_RejectsEverythingElse(t *testing.T) {
	labels := map[string]bool{}
	for _, tr := range workflow.Transitions() {
		labels[tr.Action] = true
	}
	labels["unknown"] = true
	labels[""] = true

	for _, status := range workflow.Statuses() {
		valid := map[string]bool{}
		for _, a := range workflow.ActionsFor(status) {
			valid[a] = true
		}
		for label := range labels {
			_, ok := workflow.Lookup(status, label)
			require.Equal(t, valid[label], ok, "%s / %q", status, label)
		}
	}
}

func TestActionsFor(t *testing.T) {
	require.Equal(t, []string{workflow.ActionMarkReadyToSend}, workflow.ActionsFor(workflow.StatusDraft))
	require.Equal(t,
		[]string{workflow.ActionMarkClientSigned, workflow.ActionMarkClientOptOut},
		workflow.ActionsFor(workflow.StatusSentToClient))
	require.Empty(t, workflow.ActionsFor(workflow.StatusCompleted))
	require.Empty(t, workflow.ActionsFor(workflow.StatusClientOptedOut))
}

func TestTerminalStatuses(t *testing.T) {
	var terminal []workflow.Status
	for _, s := range workflow.Statuses() {
		if s.IsTerminal() {
			terminal = append(terminal, s)
			continue
		}
		n := len(workflow.ActionsFor(s))
		require.True(t, n == 1 || n == 2, "%s has %d actions", s, n)
	}
	require.ElementsMatch(t, []workflow.Status{workflow.StatusClientOptedOut, workflow.StatusCompleted}, terminal)
}

func TestEveryStatusReachableFromInitial(t *testing.T) {
	seen := map[workflow.Status]bool{workflow.InitialStatus: true}
	queue := []workflow.Status{workflow.InitialStatus}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, action := range workflow.ActionsFor(cur) {
			tr, _ := workflow.Lookup(cur, action)
			if !seen[tr.To] {
				seen[tr.To] = true
				queue = append(queue, tr.To)
			}
		}
	}
	require.Len(t, seen, len(workflow.Statuses()))
}

func TestNextTeamHint(t *testing.T) {
	tests := []struct {
		status workflow.Status
		team   string
		ok     bool
	}{
		{workflow.StatusDraft, "Data", true},
		{workflow.StatusReadyToSend, "Admin Solution", true},
		{workflow.StatusSentToClient, "Ops Support", true},
		{workflow.StatusClientSigned, "Submission & Novation", true},
		{workflow.StatusClientOptedOut, "Support Hub", true},
		{workflow.StatusReceivedPaperwork, "Submission & Novation", true},
		{workflow.StatusSubmittedToProvider, "Tech Excellence Center", true},
		{workflow.StatusProviderUplifted, "IS", true},
		{workflow.StatusIOClosedNewFee, "Admin Solution", true},
		{workflow.StatusCompleted, "", false},
	}
	for _, tt := range tests {
		team, ok := workflow.NextTeamHint(tt.status)
		require.Equal(t, tt.ok, ok, tt.status)
		require.Equal(t, tt.team, team, tt.status)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := workflow.ParseStatus("SENT_TO_CLIENT")
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSentToClient, s)

	_, err = workflow.ParseStatus("sent_to_client")
	require.Error(t, err)
}
