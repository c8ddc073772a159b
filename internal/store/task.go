package store

import (
	"context"
	"fmt"

	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/repository"
)

// TaskRepository implements task.Repository
type TaskRepository struct {
	c conn
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (id, case_id, team_id, title, status, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query,
		t.ID,
		t.CaseID,
		t.Team.ID,
		t.Title,
		string(t.Status),
		t.DueAt.UTC(),
		t.CreatedAt.UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// ListByCase returns a case's tasks, oldest first
func (r *TaskRepository) ListByCase(ctx context.Context, caseID string) ([]task.Task, error) {
	return r.list(ctx, `WHERE k.case_id = ? ORDER BY k.created_at ASC, k.id ASC`, caseID)
}

// ListOpenByTeam returns a team's open tasks, soonest due first
func (r *TaskRepository) ListOpenByTeam(ctx context.Context, teamID string) ([]task.Task, error) {
	return r.list(ctx, `WHERE k.team_id = ? AND k.status = 'OPEN' ORDER BY k.due_at ASC, k.id ASC`, teamID)
}

func (r *TaskRepository) list(ctx context.Context, clause string, arg any) ([]task.Task, error) {
	query := `
		SELECT k.id, k.case_id, k.team_id, t.name, k.title, k.status, k.due_at, k.created_at
		FROM tasks k
		JOIN teams t ON t.id = k.team_id
	` + clause

	rows, err := r.c.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			t      task.Task
			status string
		)
		err := rows.Scan(&t.ID, &t.CaseID, &t.Team.ID, &t.Team.Name, &t.Title, &status, &t.DueAt, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Status = task.Status(status)
		t.DueAt = t.DueAt.UTC()
		t.CreatedAt = t.CreatedAt.UTC()
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}
