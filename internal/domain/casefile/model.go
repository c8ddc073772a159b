package casefile

import (
	"time"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

// SignatureType is how the client signs the uplift paperwork.
type SignatureType string

const (
	SignatureDocuSign        SignatureType = "DOCUSIGN"
	SignatureWet             SignatureType = "WET"
	SignaturePositiveConsent SignatureType = "POSITIVE_CONSENT"
)

// SignatureTypes lists the accepted signature types.
func SignatureTypes() []SignatureType {
	return []SignatureType{SignatureDocuSign, SignatureWet, SignaturePositiveConsent}
}

// DefaultSLADays is the SLA window used when a case is created without one.
const DefaultSLADays = 10

// Case is one fee uplift workflow instance for a client/provider pair.
type Case struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name,omitempty"`
	ProviderID    string          `json:"provider_id"`
	ProviderName  string          `json:"provider_name,omitempty"`
	SignatureType SignatureType   `json:"signature_type"`
	Status        workflow.Status `json:"status"`
	AssignedTeam  *team.Ref       `json:"assigned_team,omitempty"`
	SLADays       int             `json:"sla_days"`
	DueAt         *time.Time      `json:"due_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int64           `json:"version"`
}

// IsOverdue reports whether the SLA due date has passed.
func (c Case) IsOverdue(now time.Time) bool {
	return c.DueAt != nil && c.DueAt.Before(now) && c.Status != workflow.StatusCompleted
}

// TransitionResult carries everything a successful transition produced.
type TransitionResult struct {
	Case       *Case               `json:"case"`
	Transition workflow.Transition `json:"transition"`
	Task       *task.Task          `json:"task,omitempty"`
	Entry      *audit.Entry        `json:"audit_entry"`
}
