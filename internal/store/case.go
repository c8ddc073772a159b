package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/rpggio/feeuplift/internal/repository"
)

// CaseRepository implements casefile.CaseRepository
type CaseRepository struct {
	c conn
}

const caseColumns = `
	c.id, c.title, c.client_id, cl.name, c.provider_id, p.name,
	c.signature_type, c.status, c.assigned_team_id, t.name,
	c.sla_days, c.due_at, c.created_at, c.updated_at, c.version
`

const caseFrom = `
	FROM cases c
	JOIN clients cl ON cl.id = c.client_id
	JOIN providers p ON p.id = c.provider_id
	LEFT JOIN teams t ON t.id = c.assigned_team_id
`

// Create inserts a new case
func (r *CaseRepository) Create(ctx context.Context, c *casefile.Case) error {
	query := `
		INSERT INTO cases (
			id, title, client_id, provider_id, signature_type, status,
			assigned_team_id, sla_days, due_at, created_at, updated_at, version
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query,
		c.ID,
		c.Title,
		c.ClientID,
		c.ProviderID,
		string(c.SignatureType),
		string(c.Status),
		teamID(c.AssignedTeam),
		c.SLADays,
		utcPtr(c.DueAt),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
		c.Version,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create case: %w", err)
	}

	return nil
}

// Get retrieves a case by ID
func (r *CaseRepository) Get(ctx context.Context, id string) (*casefile.Case, error) {
	query := `SELECT ` + caseColumns + caseFrom + ` WHERE c.id = ?`

	c, err := scanCase(r.c.queryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	return c, nil
}

// Update writes the mutable workflow fields of c if the stored version still
// equals expectedVersion
func (r *CaseRepository) Update(ctx context.Context, c *casefile.Case, expectedVersion int64) error {
	query := `
		UPDATE cases
		SET status = ?, assigned_team_id = ?, due_at = ?, updated_at = ?, version = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.c.exec(ctx, query,
		string(c.Status),
		teamID(c.AssignedTeam),
		utcPtr(c.DueAt),
		c.UpdatedAt.UTC(),
		c.Version,
		c.ID,
		expectedVersion,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update case: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM cases WHERE id = ?)`
		if err := r.c.queryRow(ctx, checkQuery, c.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check case existence: %w", err)
		}

		if !exists {
			return repository.ErrNotFound
		}

		// Case exists but version doesn't match
		return repository.ErrConflict
	}

	return nil
}

// List returns cases matching opts
func (r *CaseRepository) List(ctx context.Context, opts casefile.ListOptions) ([]casefile.Case, error) {
	var (
		where []string
		args  []any
	)

	if len(opts.Statuses) > 0 {
		where = append(where, "c.status IN ("+placeholders(len(opts.Statuses))+")")
		args = appendStatuses(args, opts.Statuses)
	}
	if len(opts.ExcludeStatuses) > 0 {
		where = append(where, "c.status NOT IN ("+placeholders(len(opts.ExcludeStatuses))+")")
		args = appendStatuses(args, opts.ExcludeStatuses)
	}
	if opts.TeamID != "" {
		where = append(where, "c.assigned_team_id = ?")
		args = append(args, opts.TeamID)
	}
	if opts.TeamName != "" {
		where = append(where, "t.name = ?")
		args = append(args, opts.TeamName)
	}
	if opts.DueBefore != nil {
		where = append(where, "c.due_at IS NOT NULL AND c.due_at < ?")
		args = append(args, opts.DueBefore.UTC())
	}

	query := `SELECT ` + caseColumns + caseFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if opts.OrderByDue {
		query += " ORDER BY CASE WHEN c.due_at IS NULL THEN 1 ELSE 0 END, c.due_at ASC, c.created_at ASC, c.id ASC"
	} else {
		query += " ORDER BY c.created_at DESC, c.id DESC"
	}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []casefile.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating case rows: %w", err)
	}

	return cases, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*casefile.Case, error) {
	var (
		c         casefile.Case
		signature string
		status    string
		assigned  sql.NullString
		teamName  sql.NullString
		dueAt     sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.ClientID,
		&c.ClientName,
		&c.ProviderID,
		&c.ProviderName,
		&signature,
		&status,
		&assigned,
		&teamName,
		&c.SLADays,
		&dueAt,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Version,
	)
	if err != nil {
		return nil, err
	}

	c.SignatureType = casefile.SignatureType(signature)
	c.Status = workflow.Status(status)
	if assigned.Valid {
		c.AssignedTeam = &team.Ref{ID: assigned.String, Name: teamName.String}
	}
	if dueAt.Valid {
		due := dueAt.Time.UTC()
		c.DueAt = &due
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()

	return &c, nil
}

func teamID(ref *team.Ref) *string {
	if ref == nil {
		return nil
	}
	return &ref.ID
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendStatuses(args []any, statuses []workflow.Status) []any {
	for _, s := range statuses {
		args = append(args, string(s))
	}
	return args
}
