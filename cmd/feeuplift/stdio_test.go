package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "FEEUPLIFT_TEST_RUN_MAIN"

// TestMain lets the test binary stand in for the feeuplift binary when
// re-executed with runMainEnv set.
func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

type stdioSession struct {
	session *sdkmcp.ClientSession
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, os.Args[0], "serve", "--stdio")
	cmd.Env = append(os.Environ(),
		runMainEnv+"=1",
		"FEEUPLIFT_DB_URL=",
		"DB_URL=",
		"FEEUPLIFT_CONFIG_PATH=",
		"FEEUPLIFT_LOG_PATH=",
		"FEEUPLIFT_DB_PATH=:memory:",
		"FEEUPLIFT_LOG_LEVEL=error",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) (json.RawMessage, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(text.Text), result.IsError
		}
	}
	t.Fatalf("tool %s returned no text content", name)
	return nil, true
}

func (s *stdioSession) mustCall(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	raw, isErr := s.callTool(t, name, args)
	require.False(t, isErr, "tool %s failed: %s", name, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func TestStdio_CaseWorkflow(t *testing.T) {
	s := newStdioSession(t)

	var created struct {
		Case struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Version int64  `json:"version"`
		} `json:"case"`
		Actions []string `json:"actions"`
	}
	s.mustCall(t, "create_case", map[string]any{
		"title":         "Annual uplift",
		"client_name":   "Jane Doe",
		"provider_name": "Aviva",
		"actor_id":      "adviser-1",
	}, &created)
	require.Equal(t, "DRAFT", created.Case.Status)
	require.Equal(t, []string{"Mark Ready to Send"}, created.Actions)

	steps := []struct {
		action string
		status string
	}{
		{"Mark Ready to Send", "READY_TO_SEND"},
		{"Send to Client", "SENT_TO_CLIENT"},
		{"Mark Client Opted Out", "CLIENT_OPTED_OUT"},
	}
	for _, step := range steps {
		var result struct {
			Case struct {
				Status string `json:"status"`
			} `json:"case"`
		}
		s.mustCall(t, "apply_transition", map[string]any{
			"case_id": created.Case.ID,
			"action":  step.action,
		}, &result)
		require.Equal(t, step.status, result.Case.Status)
	}

	var actions struct {
		Actions []string `json:"actions"`
	}
	s.mustCall(t, "current_actions", map[string]any{"case_id": created.Case.ID}, &actions)
	require.Empty(t, actions.Actions)

	var history struct {
		Entries []struct {
			Action string `json:"action"`
		} `json:"entries"`
	}
	s.mustCall(t, "case_history", map[string]any{"case_id": created.Case.ID}, &history)
	require.Len(t, history.Entries, 4)
	require.Equal(t, "client_opted_out", history.Entries[3].Action)

	var queue struct {
		Count int `json:"count"`
	}
	s.mustCall(t, "team_queue", map[string]any{"team": "Support Hub"}, &queue)
	require.Equal(t, 1, queue.Count)
}

func TestStdio_IllegalTransition(t *testing.T) {
	s := newStdioSession(t)

	var created struct {
		Case struct {
			ID string `json:"id"`
		} `json:"case"`
	}
	s.mustCall(t, "create_case", map[string]any{
		"title":         "Uplift",
		"client_name":   "John Roe",
		"provider_name": "Royal London",
	}, &created)

	raw, isErr := s.callTool(t, "apply_transition", map[string]any{
		"case_id": created.Case.ID,
		"action":  "Complete Case",
	})
	require.True(t, isErr)
	require.Contains(t, string(raw), "ILLEGAL_TRANSITION")
}
