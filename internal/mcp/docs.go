package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

const serverInstructions = `feeuplift tracks fee uplift cases from DRAFT to COMPLETED.

Core concepts:
- Case: one uplift for a client/provider pair. Has a status, an assigned team, an SLA due date and a version.
- Action: a human label ("Mark Ready to Send") that moves a case between statuses. Only listed actions are legal.
- Task: follow-up work spawned for the newly assigned team on every transition.
- Audit trail: append-only history of everything done to a case.

Rules of engagement:
1) Find work: team_queue(team) or overdue_cases, or list_cases.
2) Before acting: current_actions(case_id). Use a returned label verbatim.
3) Act: apply_transition(case_id, action, note). Pass expected_version from get_case to avoid racing other agents.
   - ILLEGAL_TRANSITION: re-read current_actions.
   - CONFLICT: reload the case and decide again.
4) Explain: case_history shows who did what and when.

Docs:
- feeuplift://docs/workflow (transition and routing tables)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

var docResources = []docResource{
	{
		URI:         "feeuplift://docs/workflow",
		Name:        "docs_workflow",
		Title:       "Fee uplift workflow",
		Description: "Every status, the actions leading out of it, and the team each status routes to.",
		Content:     workflowDoc,
	},
}

func workflowDoc() string {
	var b strings.Builder

	b.WriteString("# Fee uplift workflow\n\n")
	b.WriteString("Each transition resets the SLA due date, reassigns the case to the team of the new status, ")
	b.WriteString("spawns one task for that team and writes one audit entry.\n\n")

	b.WriteString("## Transitions\n\n")
	b.WriteString("| from | action | to | audit action |\n|---|---|---|---|\n")
	for _, tr := range workflow.Transitions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", tr.From, tr.Action, tr.To, tr.AuditAction)
	}

	b.WriteString("\n## Routing\n\n")
	b.WriteString("| status | team |\n|---|---|\n")
	for _, status := range workflow.Statuses() {
		name, ok := workflow.NextTeamHint(status)
		if !ok {
			name = "(none)"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", status, name)
	}

	b.WriteString("\n## Terminal statuses\n\n")
	for _, status := range workflow.Statuses() {
		if status.IsTerminal() {
			fmt.Fprintf(&b, "- %s\n", status)
		}
	}

	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc
		content := doc.Content()

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     content,
				}},
			}, nil
		})
	}
}
