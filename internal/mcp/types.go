package mcp

import (
	"time"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

type CreateCaseParams struct {
	Title             string `json:"title" jsonschema:"short case title"`
	ClientName        string `json:"client_name" jsonschema:"client name; created on first use"`
	ClientIOReference string `json:"client_io_reference,omitempty" jsonschema:"client reference in the back-office system"`
	ProviderName      string `json:"provider_name" jsonschema:"provider name; created on first use"`
	SignatureType     string `json:"signature_type,omitempty" jsonschema:"DOCUSIGN (default), WET or POSITIVE_CONSENT"`
	SLADays           int    `json:"sla_days,omitempty" jsonschema:"days until due after each transition (default 10)"`
	ActorID           string `json:"actor_id,omitempty" jsonschema:"acting user; defaults to the request actor"`
}

type CaseIDParams struct {
	CaseID string `json:"case_id" jsonschema:"case id"`
}

type ListCasesParams struct {
	Status string `json:"status,omitempty" jsonschema:"only cases in this status"`
	Team   string `json:"team,omitempty" jsonschema:"only cases assigned to this team name"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of cases"`
	Offset int    `json:"offset,omitempty" jsonschema:"cases to skip"`
}

type ApplyTransitionParams struct {
	CaseID          string `json:"case_id" jsonschema:"case id"`
	Action          string `json:"action" jsonschema:"action label exactly as returned by current_actions"`
	Note            string `json:"note,omitempty" jsonschema:"free-text note for the audit trail"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" jsonschema:"reject if the case version differs"`
	ActorID         string `json:"actor_id,omitempty" jsonschema:"acting user; defaults to the request actor"`
}

type TeamQueueParams struct {
	Team string `json:"team" jsonschema:"team name"`
}

type EmptyParams struct{}

// CaseView is a case with its next actions.
type CaseView struct {
	Case    *casefile.Case `json:"case"`
	Actions []string       `json:"actions"`
	Overdue bool           `json:"overdue"`
}

type CaseListResponse struct {
	Cases []casefile.Case `json:"cases"`
	Count int             `json:"count"`
}

type ActionsResponse struct {
	CaseID  string   `json:"case_id"`
	Actions []string `json:"actions"`
}

type HistoryResponse struct {
	CaseID  string        `json:"case_id"`
	Entries []audit.Entry `json:"entries"`
}

type TasksResponse struct {
	CaseID string      `json:"case_id"`
	Tasks  []task.Task `json:"tasks"`
}

type TeamsResponse struct {
	Teams []team.Team `json:"teams"`
}

func newCaseView(c *casefile.Case, actions []string, now time.Time) CaseView {
	if actions == nil {
		actions = []string{}
	}
	return CaseView{Case: c, Actions: actions, Overdue: c.IsOverdue(now)}
}

func newCaseList(cases []casefile.Case) CaseListResponse {
	if cases == nil {
		cases = []casefile.Case{}
	}
	return CaseListResponse{Cases: cases, Count: len(cases)}
}
