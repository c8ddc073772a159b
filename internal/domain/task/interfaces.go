package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	ListByCase(ctx context.Context, caseID string) ([]Task, error)
	ListOpenByTeam(ctx context.Context, teamID string) ([]Task, error)
}
