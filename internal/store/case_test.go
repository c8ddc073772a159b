package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/rpggio/feeuplift/internal/repository"
)

func TestCaseRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	c := seedCase(t, db, "Uplift 1", created)

	got, err := db.Cases().Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Uplift 1", got.Title)
	require.Equal(t, "Client Uplift 1", got.ClientName)
	require.Equal(t, "Aviva", got.ProviderName)
	require.Equal(t, workflow.StatusDraft, got.Status)
	require.Equal(t, casefile.SignatureDocuSign, got.SignatureType)
	require.Nil(t, got.AssignedTeam)
	require.Nil(t, got.DueAt)
	require.Equal(t, int64(1), got.Version)
	require.True(t, created.Equal(got.CreatedAt))
}

func TestCaseRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Cases().Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := seedCase(t, db, "Uplift 1", created)

	hub, err := db.Teams().Ensure(ctx, "Admin Team")
	require.NoError(t, err)

	due := created.AddDate(0, 0, 10)
	next := *c
	next.Status = workflow.StatusReadyToSend
	ref := hub.Ref()
	next.AssignedTeam = &ref
	next.DueAt = &due
	next.UpdatedAt = created.Add(time.Hour)
	next.Version = 2

	require.NoError(t, db.Cases().Update(ctx, &next, 1))

	got, err := db.Cases().Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusReadyToSend, got.Status)
	require.Equal(t, int64(2), got.Version)
	require.NotNil(t, got.AssignedTeam)
	require.Equal(t, "Admin Team", got.AssignedTeam.Name)
	require.NotNil(t, got.DueAt)
	require.True(t, due.Equal(*got.DueAt))
}

func TestCaseRepository_UpdateVersionConflict(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	c := seedCase(t, db, "Uplift 1", time.Now().UTC())

	stale := *c
	stale.Status = workflow.StatusReadyToSend
	stale.Version = 2

	// Stored version is 1, so expecting 7 must fail.
	err := db.Cases().Update(ctx, &stale, 7)
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := db.Cases().Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDraft, got.Status)
}

func TestCaseRepository_UpdateNotFound(t *testing.T) {
	db := NewTestDB(t)

	err := db.Cases().Update(context.Background(), &casefile.Case{ID: "missing", Status: workflow.StatusDraft, Version: 2}, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := seedCase(t, db, "first", base)
	second := seedCase(t, db, "second", base.Add(time.Hour))
	third := seedCase(t, db, "third", base.Add(2*time.Hour))

	admin, err := db.Teams().Ensure(ctx, "Admin Team")
	require.NoError(t, err)
	ref := admin.Ref()

	// second: assigned and due soon; third: completed and long overdue
	dueSoon := base.AddDate(0, 0, 2)
	upd := *second
	upd.Status, upd.AssignedTeam, upd.DueAt, upd.Version = workflow.StatusReadyToSend, &ref, &dueSoon, 2
	require.NoError(t, db.Cases().Update(ctx, &upd, 1))

	dueEarly := base.AddDate(0, 0, 1)
	upd = *third
	upd.Status, upd.DueAt, upd.Version = workflow.StatusCompleted, &dueEarly, 2
	require.NoError(t, db.Cases().Update(ctx, &upd, 1))

	all, err := db.Cases().List(ctx, casefile.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, third.ID, all[0].ID, "newest first")
	require.Equal(t, first.ID, all[2].ID)

	byTeam, err := db.Cases().List(ctx, casefile.ListOptions{TeamID: admin.ID})
	require.NoError(t, err)
	require.Len(t, byTeam, 1)
	require.Equal(t, second.ID, byTeam[0].ID)

	byTeamName, err := db.Cases().List(ctx, casefile.ListOptions{TeamName: "Admin Team"})
	require.NoError(t, err)
	require.Len(t, byTeamName, 1)
	require.Equal(t, second.ID, byTeamName[0].ID)

	drafts, err := db.Cases().List(ctx, casefile.ListOptions{Statuses: []workflow.Status{workflow.StatusDraft}})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, first.ID, drafts[0].ID)

	cutoff := base.AddDate(0, 0, 5)
	overdue, err := db.Cases().List(ctx, casefile.ListOptions{
		DueBefore:       &cutoff,
		ExcludeStatuses: []workflow.Status{workflow.StatusCompleted},
	})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, second.ID, overdue[0].ID)

	byDue, err := db.Cases().List(ctx, casefile.ListOptions{OrderByDue: true})
	require.NoError(t, err)
	require.Len(t, byDue, 3)
	require.Equal(t, third.ID, byDue[0].ID)
	require.Equal(t, second.ID, byDue[1].ID)
	require.Equal(t, first.ID, byDue[2].ID, "undated cases sort last")

	page, err := db.Cases().List(ctx, casefile.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, second.ID, page[0].ID)
}
