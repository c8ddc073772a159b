package casefile

import (
	"time"

	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

// ListOptions filters case listings. Results are newest first unless
// OrderByDue is set, which orders by due date with undated cases last.
type ListOptions struct {
	Statuses        []workflow.Status
	ExcludeStatuses []workflow.Status
	TeamID          string
	TeamName        string
	DueBefore       *time.Time
	OrderByDue      bool
	Limit           int
	Offset          int
}
