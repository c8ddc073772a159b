package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/repository"
)

// AuditRepository implements audit.Repository. Rows are only ever inserted.
type AuditRepository struct {
	c conn
}

// Append inserts an entry and sets its ID
func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode audit metadata: %w", err)
	}

	var userID *string
	if id, ok := entry.Actor.UserID(); ok {
		userID = &id
	}

	query := `
		INSERT INTO audit_entries (case_id, user_id, action, note, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	err = r.c.queryRow(ctx, query,
		entry.CaseID,
		userID,
		entry.Action,
		entry.Note,
		string(encoded),
		entry.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	entry.ID = id
	return nil
}

// ListByCase returns the case's entries, oldest first
func (r *AuditRepository) ListByCase(ctx context.Context, caseID string) ([]audit.Entry, error) {
	query := `
		SELECT id, case_id, user_id, action, note, metadata, created_at
		FROM audit_entries
		WHERE case_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.c.query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e        audit.Entry
			userID   sql.NullString
			metadata string
		)
		if err := rows.Scan(&e.ID, &e.CaseID, &userID, &e.Action, &e.Note, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if userID.Valid {
			e.Actor = audit.User(userID.String)
		} else {
			e.Actor = audit.System()
		}
		e.Metadata = map[string]any{}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode audit metadata: %w", err)
			}
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}
