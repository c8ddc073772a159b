package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

// DefaultDueInDays is the spawn offset used when none is configured.
const DefaultDueInDays = 5

// Spawner creates follow-up tasks. Prior tasks of the case are never inspected.
type Spawner struct {
	DueInDays int
	Now       func() time.Time
}

// NewSpawner creates a spawner with the given due offset in days.
func NewSpawner(dueInDays int) *Spawner {
	if dueInDays <= 0 {
		dueInDays = DefaultDueInDays
	}
	return &Spawner{DueInDays: dueInDays, Now: func() time.Time { return time.Now().UTC() }}
}

// Spawn creates one OPEN task for the team. A nil team creates nothing.
// dueInDays <= 0 falls back to the spawner default.
func (s *Spawner) Spawn(ctx context.Context, repo Repository, caseID string, owner *team.Team, title string, dueInDays int) (*Task, error) {
	if owner == nil {
		return nil, nil
	}
	if dueInDays <= 0 {
		dueInDays = s.DueInDays
	}
	now := s.Now()
	t := &Task{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Team:      owner.Ref(),
		Title:     title,
		Status:    StatusOpen,
		DueAt:     now.AddDate(0, 0, dueInDays),
		CreatedAt: now,
	}
	if err := repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}
