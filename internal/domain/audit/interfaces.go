package audit

import "context"

// Repository is an append-only store of audit entries.
type Repository interface {
	// Append persists the entry and assigns its ID.
	Append(ctx context.Context, entry *Entry) error
	// ListByCase returns entries ordered by created_at, then id, ascending.
	ListByCase(ctx context.Context, caseID string) ([]Entry, error)
}
