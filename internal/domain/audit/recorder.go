package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Recorder appends entries to a case's audit trail and reads it back.
type Recorder struct {
	Now func() time.Time
}

// NewRecorder creates a recorder stamping entries with the current UTC time.
func NewRecorder() *Recorder {
	return &Recorder{Now: func() time.Time { return time.Now().UTC() }}
}

// Record appends one entry. Past entries are never touched.
func (r *Recorder) Record(ctx context.Context, repo Repository, caseID string, actor Actor, action, note string, metadata map[string]any) (*Entry, error) {
	if strings.TrimSpace(caseID) == "" || strings.TrimSpace(action) == "" {
		return nil, ErrInvalidInput
	}
	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	entry := &Entry{
		CaseID:    caseID,
		Actor:     actor,
		Action:    action,
		Note:      note,
		Metadata:  meta,
		CreatedAt: r.Now(),
	}
	if err := repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending audit entry: %w", err)
	}
	return entry, nil
}

// History returns the case's entries in chronological order, ties broken by id.
func (r *Recorder) History(ctx context.Context, repo Repository, caseID string) ([]Entry, error) {
	entries, err := repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}
