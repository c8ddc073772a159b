package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/feeuplift/internal/domain/party"
	"github.com/rpggio/feeuplift/internal/repository"
)

// PartyRepository implements party.Repository
type PartyRepository struct {
	c conn
}

// EnsureProvider returns the named provider, inserting it first if needed
func (r *PartyRepository) EnsureProvider(ctx context.Context, name string) (*party.Provider, error) {
	query := `
		INSERT INTO providers (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO NOTHING
	`

	if _, err := r.c.exec(ctx, query, uuid.NewString(), name, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to ensure provider: %w", err)
	}

	var p party.Provider
	err := r.c.queryRow(ctx, `SELECT id, name, created_at FROM providers WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider: %w", err)
	}

	return &p, nil
}

// EnsureClient returns the client with client.Name, inserting client first if needed.
// An existing client keeps its stored attributes.
func (r *PartyRepository) EnsureClient(ctx context.Context, client *party.Client) (*party.Client, error) {
	id := client.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := client.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO clients (id, name, io_reference, provider_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := r.c.exec(ctx, query, id, client.Name, client.IOReference, client.ProviderID, createdAt.UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to ensure client: %w", err)
	}

	stored, err := r.getClient(ctx, `WHERE name = ?`, client.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return stored, nil
}

// GetProvider retrieves a provider by ID
func (r *PartyRepository) GetProvider(ctx context.Context, id string) (*party.Provider, error) {
	var p party.Provider
	err := r.c.queryRow(ctx, `SELECT id, name, created_at FROM providers WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &p, nil
}

// GetClient retrieves a client by ID
func (r *PartyRepository) GetClient(ctx context.Context, id string) (*party.Client, error) {
	c, err := r.getClient(ctx, `WHERE id = ?`, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (r *PartyRepository) getClient(ctx context.Context, where string, arg any) (*party.Client, error) {
	query := `SELECT id, name, io_reference, provider_id, created_at FROM clients ` + where

	var (
		c          party.Client
		providerID sql.NullString
	)
	err := r.c.queryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.IOReference, &providerID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if providerID.Valid {
		c.ProviderID = &providerID.String
	}
	return &c, nil
}
