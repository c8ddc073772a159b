package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/rpggio/feeuplift/internal/repository"
)

// DefaultNames lists the teams seeded into a fresh store.
func DefaultNames() []string {
	return []string{
		workflow.TeamData,
		workflow.TeamAdminSolution,
		workflow.TeamOpsSupport,
		workflow.TeamTechExcellenceCenter,
		workflow.TeamSubmissionNovation,
		workflow.TeamSupportHub,
		workflow.TeamPost,
		workflow.TeamIS,
	}
}

// Directory resolves team names to team identities. It keeps no state;
// every call receives the repository to work against.
type Directory struct {
	logger *slog.Logger
}

// NewDirectory creates a team directory.
func NewDirectory(logger *slog.Logger) *Directory {
	return &Directory{logger: logger}
}

// Resolve returns the team with the given name, creating it on first use.
func (d *Directory) Resolve(ctx context.Context, repo Repository, name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	t, err := repo.Ensure(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving team %q: %w", name, err)
	}
	return t, nil
}

// Lookup returns an existing team without creating it.
func (d *Directory) Lookup(ctx context.Context, repo Repository, name string) (*Team, error) {
	t, err := repo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("looking up team %q: %w", name, err)
	}
	return t, nil
}

// SeedDefaults makes sure every default team exists.
func (d *Directory) SeedDefaults(ctx context.Context, repo Repository) error {
	for _, name := range DefaultNames() {
		if _, err := d.Resolve(ctx, repo, name); err != nil {
			return err
		}
	}
	if d.logger != nil {
		d.logger.Debug("default teams seeded", "count", len(DefaultNames()))
	}
	return nil
}

// List returns all teams ordered by name.
func (d *Directory) List(ctx context.Context, repo Repository) ([]Team, error) {
	teams, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return teams, nil
}
