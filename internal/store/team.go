package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/repository"
)

// TeamRepository implements team.Repository
type TeamRepository struct {
	c conn
}

// Ensure returns the named team, inserting it first if needed
func (r *TeamRepository) Ensure(ctx context.Context, name string) (*team.Team, error) {
	query := `
		INSERT INTO teams (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO NOTHING
	`

	if _, err := r.c.exec(ctx, query, uuid.NewString(), name, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to ensure team: %w", err)
	}

	return r.GetByName(ctx, name)
}

// GetByName retrieves a team by its unique name
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*team.Team, error) {
	query := `SELECT id, name, created_at FROM teams WHERE name = ?`

	var t team.Team
	err := r.c.queryRow(ctx, query, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &t, nil
}

// List returns all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	rows, err := r.c.query(ctx, `SELECT id, name, created_at FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []team.Team
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}

	return teams, nil
}
