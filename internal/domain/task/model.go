package task

import (
	"time"

	"github.com/rpggio/feeuplift/internal/domain/team"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

// Task is a unit of follow-up work owned by one team for one case.
type Task struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	Team      team.Ref  `json:"team"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	DueAt     time.Time `json:"due_at"`
	CreatedAt time.Time `json:"created_at"`
}
