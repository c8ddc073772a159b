package mcp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

// tools adapts CaseService to MCP tool handlers. Results are returned as
// structured content; the second value of every handler is untyped so no
// output schema is advertised.
type tools struct {
	cases  CaseService
	logger *slog.Logger
	now    func() time.Time
}

func registerTools(server *sdkmcp.Server, t *tools) {
	if t.now == nil {
		t.now = func() time.Time { return time.Now().UTC() }
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_case",
		Description: "Create a fee uplift case in DRAFT. Client and provider are created on first use.",
	}, t.createCase)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_case",
		Description: "Get a case with its currently valid actions.",
	}, t.getCase)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_cases",
		Description: "List cases newest first, optionally filtered by status or team.",
	}, t.listCases)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "current_actions",
		Description: "List the action labels valid for the case's current status. Empty means terminal.",
	}, t.currentActions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "apply_transition",
		Description: "Apply an action to a case: moves status, resets the SLA due date, reassigns the team, spawns a task and writes the audit trail atomically.",
	}, t.applyTransition)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "case_history",
		Description: "Audit trail of a case, oldest first.",
	}, t.caseHistory)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "case_tasks",
		Description: "Follow-up tasks spawned for a case.",
	}, t.caseTasks)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "team_queue",
		Description: "Cases assigned to a team that are not completed, soonest due first.",
	}, t.teamQueue)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "overdue_cases",
		Description: "Cases past their SLA due date that are not completed.",
	}, t.overdueCases)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_teams",
		Description: "All teams cases can be routed to.",
	}, t.listTeams)
}

func (t *tools) createCase(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateCaseParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := t.cases.CreateCase(ctx, casefile.CreateRequest{
		Title:             in.Title,
		ClientName:        in.ClientName,
		ClientIOReference: in.ClientIOReference,
		ProviderName:      in.ProviderName,
		SignatureType:     casefile.SignatureType(strings.ToUpper(strings.TrimSpace(in.SignatureType))),
		SLADays:           in.SLADays,
		Actor:             resolveActor(ctx, in.ActorID),
	})
	if err != nil {
		return nil, nil, t.fail("create_case", err)
	}
	return nil, newCaseView(c, workflow.ActionsFor(c.Status), t.now()), nil
}

func (t *tools) getCase(ctx context.Context, _ *sdkmcp.CallToolRequest, in CaseIDParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := t.cases.Get(ctx, in.CaseID)
	if err != nil {
		return nil, nil, t.fail("get_case", err)
	}
	return nil, newCaseView(c, workflow.ActionsFor(c.Status), t.now()), nil
}

func (t *tools) listCases(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListCasesParams) (*sdkmcp.CallToolResult, any, error) {
	opts := casefile.ListOptions{
		TeamName: strings.TrimSpace(in.Team),
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if in.Status != "" {
		status, err := workflow.ParseStatus(in.Status)
		if err != nil {
			return nil, nil, &APIError{Code: "INVALID_INPUT", Message: err.Error()}
		}
		opts.Statuses = []workflow.Status{status}
	}

	cases, err := t.cases.List(ctx, opts)
	if err != nil {
		return nil, nil, t.fail("list_cases", err)
	}
	return nil, newCaseList(cases), nil
}

func (t *tools) currentActions(ctx context.Context, _ *sdkmcp.CallToolRequest, in CaseIDParams) (*sdkmcp.CallToolResult, any, error) {
	actions, err := t.cases.CurrentActions(ctx, in.CaseID)
	if err != nil {
		return nil, nil, t.fail("current_actions", err)
	}
	return nil, ActionsResponse{CaseID: in.CaseID, Actions: actions}, nil
}

func (t *tools) applyTransition(ctx context.Context, _ *sdkmcp.CallToolRequest, in ApplyTransitionParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.cases.ApplyTransition(ctx, casefile.TransitionRequest{
		CaseID:          in.CaseID,
		Actor:           resolveActor(ctx, in.ActorID),
		Action:          in.Action,
		Note:            in.Note,
		ExpectedVersion: in.ExpectedVersion,
	})
	if err != nil {
		return nil, nil, t.fail("apply_transition", err)
	}
	return nil, res, nil
}

func (t *tools) caseHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, in CaseIDParams) (*sdkmcp.CallToolResult, any, error) {
	entries, err := t.cases.History(ctx, in.CaseID)
	if err != nil {
		return nil, nil, t.fail("case_history", err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return nil, HistoryResponse{CaseID: in.CaseID, Entries: entries}, nil
}

func (t *tools) caseTasks(ctx context.Context, _ *sdkmcp.CallToolRequest, in CaseIDParams) (*sdkmcp.CallToolResult, any, error) {
	tasks, err := t.cases.Tasks(ctx, in.CaseID)
	if err != nil {
		return nil, nil, t.fail("case_tasks", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return nil, TasksResponse{CaseID: in.CaseID, Tasks: tasks}, nil
}

func (t *tools) teamQueue(ctx context.Context, _ *sdkmcp.CallToolRequest, in TeamQueueParams) (*sdkmcp.CallToolResult, any, error) {
	cases, err := t.cases.Queue(ctx, in.Team)
	if err != nil {
		return nil, nil, t.fail("team_queue", err)
	}
	return nil, newCaseList(cases), nil
}

func (t *tools) overdueCases(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	cases, err := t.cases.Overdue(ctx)
	if err != nil {
		return nil, nil, t.fail("overdue_cases", err)
	}
	return nil, newCaseList(cases), nil
}

func (t *tools) listTeams(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	teams, err := t.cases.Teams(ctx)
	if err != nil {
		return nil, nil, t.fail("list_teams", err)
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return nil, TeamsResponse{Teams: teams}, nil
}

// fail maps a service error for the client and logs what was hidden from it.
func (t *tools) fail(tool string, err error) error {
	apiErr := MapError(err)
	if t.logger != nil {
		level := slog.LevelDebug
		if apiErr.Code == "INTERNAL" {
			level = slog.LevelError
		}
		t.logger.Log(context.Background(), level, "tool failed", "tool", tool, "code", apiErr.Code, "error", err)
	}
	return apiErr
}
