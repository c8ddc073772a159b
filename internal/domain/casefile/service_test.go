package casefile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/rpggio/feeuplift/internal/store"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*casefile.Service, *store.DB, *testClock) {
	t.Helper()

	db, err := store.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })

	clock := &testClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	engine := casefile.NewEngine(casefile.EngineOptions{Now: clock.Now})
	svc := casefile.NewService(db, engine, 0, nil)
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, db, clock
}

func createCase(t *testing.T, svc *casefile.Service) *casefile.Case {
	t.Helper()
	c, err := svc.CreateCase(context.Background(), casefile.CreateRequest{
		Title:        "Annual uplift",
		ClientName:   "Jane Doe",
		ProviderName: "Aviva",
		Actor:        audit.User("adviser-1"),
	})
	require.NoError(t, err)
	return c
}

func transition(t *testing.T, svc *casefile.Service, c *casefile.Case, action string) *casefile.TransitionResult {
	t.Helper()
	res, err := svc.ApplyTransition(context.Background(), casefile.TransitionRequest{
		CaseID: c.ID,
		Actor:  audit.User("ops-1"),
		Action: action,
	})
	require.NoError(t, err, "applying %q", action)
	return res
}

func TestService_CreateCase(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	c := createCase(t, svc)
	require.NotEmpty(t, c.ID)
	require.Equal(t, workflow.StatusDraft, c.Status)
	require.Equal(t, casefile.SignatureDocuSign, c.SignatureType)
	require.Equal(t, casefile.DefaultSLADays, c.SLADays)
	require.Equal(t, int64(1), c.Version)
	require.Nil(t, c.DueAt)
	require.NotNil(t, c.AssignedTeam)
	require.Equal(t, workflow.TeamData, c.AssignedTeam.Name)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", stored.ClientName)
	require.Equal(t, "Aviva", stored.ProviderName)
	require.True(t, clock.Now().Equal(stored.CreatedAt))

	history, err := svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, audit.ActionCreated, history[0].Action)
	require.Equal(t, "Case created", history[0].Note)

	tasks, err := svc.Tasks(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestService_CreateCaseReusesParties(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	first := createCase(t, svc)
	second := createCase(t, svc)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, first.ClientID, second.ClientID)
	require.Equal(t, first.ProviderID, second.ProviderID)

	client, err := db.Parties().GetClient(ctx, first.ClientID)
	require.NoError(t, err)
	require.NotNil(t, client.ProviderID)
	require.Equal(t, first.ProviderID, *client.ProviderID)
}

func TestService_CreateCaseValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  casefile.CreateRequest
	}{
		{name: "missing title", req: casefile.CreateRequest{ClientName: "c", ProviderName: "p"}},
		{name: "blank client", req: casefile.CreateRequest{Title: "t", ClientName: "  ", ProviderName: "p"}},
		{name: "missing provider", req: casefile.CreateRequest{Title: "t", ClientName: "c"}},
		{name: "unknown signature", req: casefile.CreateRequest{Title: "t", ClientName: "c", ProviderName: "p", SignatureType: "FAX"}},
		{name: "negative sla", req: casefile.CreateRequest{Title: "t", ClientName: "c", ProviderName: "p", SLADays: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCase(ctx, tt.req)
			require.ErrorIs(t, err, casefile.ErrInvalidInput)
		})
	}

	cases, err := svc.List(ctx, casefile.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, cases)
}

func TestService_FullPath(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	c := createCase(t, svc)

	path := []struct {
		action string
		to     workflow.Status
		team   string
	}{
		{workflow.ActionMarkReadyToSend, workflow.StatusReadyToSend, workflow.TeamAdminSolution},
		{workflow.ActionSendToClient, workflow.StatusSentToClient, workflow.TeamOpsSupport},
		{workflow.ActionMarkClientSigned, workflow.StatusClientSigned, workflow.TeamSubmissionNovation},
		{workflow.ActionMarkDocsReceived, workflow.StatusReceivedPaperwork, workflow.TeamSubmissionNovation},
		{workflow.ActionSubmitToProvider, workflow.StatusSubmittedToProvider, workflow.TeamTechExcellenceCenter},
		{workflow.ActionProviderUplifted, workflow.StatusProviderUplifted, workflow.TeamIS},
		{workflow.ActionCloseFeeInIO, workflow.StatusIOClosedNewFee, workflow.TeamAdminSolution},
		{workflow.ActionCompleteCase, workflow.StatusCompleted, ""},
	}

	for i, step := range path {
		res := transition(t, svc, c, step.action)
		require.Equal(t, step.to, res.Case.Status)
		require.Equal(t, int64(i+2), res.Case.Version)
		if step.team == "" {
			require.Nil(t, res.Case.AssignedTeam)
			require.Nil(t, res.Task)
		} else {
			require.Equal(t, step.team, res.Case.AssignedTeam.Name)
			require.NotNil(t, res.Task)
			require.Equal(t, step.team, res.Task.Team.Name)
		}
	}

	final, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusCompleted, final.Status)
	require.Nil(t, final.AssignedTeam)

	actions, err := svc.CurrentActions(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, actions)
	require.Empty(t, actions)

	history, err := svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, len(path)+1)
	require.Equal(t, audit.ActionCreated, history[0].Action)
	for i, step := range path {
		entry := history[i+1]
		require.Equal(t, step.action, entry.Metadata["label"])
		require.Equal(t, string(step.to), entry.Metadata["to"])
		require.Greater(t, entry.ID, history[i].ID)
	}

	tasks, err := svc.Tasks(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, tasks, len(path)-1)
	for _, tk := range tasks {
		require.Equal(t, task.StatusOpen, tk.Status)
	}
}

func TestService_OptOutPath(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	c := createCase(t, svc)

	transition(t, svc, c, workflow.ActionMarkReadyToSend)
	transition(t, svc, c, workflow.ActionSendToClient)
	res := transition(t, svc, c, workflow.ActionMarkClientOptOut)

	require.Equal(t, workflow.StatusClientOptedOut, res.Case.Status)
	require.Equal(t, workflow.TeamSupportHub, res.Case.AssignedTeam.Name)
	require.NotNil(t, res.Task)

	actions, err := svc.CurrentActions(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, actions)

	_, err = svc.ApplyTransition(ctx, casefile.TransitionRequest{CaseID: c.ID, Action: workflow.ActionMarkClientSigned})
	require.ErrorIs(t, err, casefile.ErrIllegalTransition)
}

func TestService_SLAResetsOnEachTransition(t *testing.T) {
	svc, _, clock := newTestService(t)
	c := createCase(t, svc)

	clock.Advance(24 * time.Hour)
	first := transition(t, svc, c, workflow.ActionMarkReadyToSend)
	require.Equal(t, clock.Now().AddDate(0, 0, 10), *first.Case.DueAt)

	clock.Advance(72 * time.Hour)
	second := transition(t, svc, c, workflow.ActionSendToClient)
	require.Equal(t, clock.Now().AddDate(0, 0, 10), *second.Case.DueAt)
	require.True(t, second.Case.DueAt.After(*first.Case.DueAt))
}

func TestService_IllegalTransitionLeavesCaseUntouched(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	c := createCase(t, svc)

	_, err := svc.ApplyTransition(ctx, casefile.TransitionRequest{CaseID: c.ID, Action: workflow.ActionCompleteCase})
	require.ErrorIs(t, err, casefile.ErrIllegalTransition)

	_, err = svc.ApplyTransition(ctx, casefile.TransitionRequest{CaseID: c.ID, Action: "Do Something Else"})
	require.ErrorIs(t, err, casefile.ErrIllegalTransition)

	after, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDraft, after.Status)
	require.Equal(t, int64(1), after.Version)

	history, err := svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	tasks, err := svc.Tasks(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestService_ApplyTransitionUnknownCase(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ApplyTransition(ctx, casefile.TransitionRequest{CaseID: "nope", Action: workflow.ActionMarkReadyToSend})
	require.ErrorIs(t, err, casefile.ErrCaseNotFound)

	_, err = svc.ApplyTransition(ctx, casefile.TransitionRequest{Action: workflow.ActionMarkReadyToSend})
	require.ErrorIs(t, err, casefile.ErrInvalidInput)

	_, err = svc.History(ctx, "nope")
	require.ErrorIs(t, err, casefile.ErrCaseNotFound)
}

func TestService_ExpectedVersionMismatch(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	c := createCase(t, svc)
	transition(t, svc, c, workflow.ActionMarkReadyToSend)

	stale := int64(1)
	_, err := svc.ApplyTransition(ctx, casefile.TransitionRequest{
		CaseID:          c.ID,
		Action:          workflow.ActionSendToClient,
		ExpectedVersion: &stale,
	})
	require.ErrorIs(t, err, casefile.ErrConflict)

	after, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusReadyToSend, after.Status)
}

func TestService_ConcurrentTransitionsApplyOnce(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	c := createCase(t, svc)

	const workers = 4
	version := c.Version
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ApplyTransition(ctx, casefile.TransitionRequest{
				CaseID:          c.ID,
				Actor:           audit.User("racer"),
				Action:          workflow.ActionMarkReadyToSend,
				ExpectedVersion: &version,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, casefile.ErrConflict)
	}
	require.Equal(t, 1, succeeded)

	history, err := svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	tasks, err := svc.Tasks(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestService_QueueAndOverdue(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	early := createCase(t, svc)
	transition(t, svc, early, workflow.ActionMarkReadyToSend)

	clock.Advance(48 * time.Hour)
	late := createCase(t, svc)
	transition(t, svc, late, workflow.ActionMarkReadyToSend)

	queue, err := svc.Queue(ctx, workflow.TeamAdminSolution)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	require.Equal(t, early.ID, queue[0].ID)
	require.Equal(t, late.ID, queue[1].ID)

	dataQueue, err := svc.Queue(ctx, workflow.TeamData)
	require.NoError(t, err)
	require.Empty(t, dataQueue)

	_, err = svc.Queue(ctx, "No Such Team")
	require.ErrorIs(t, err, team.ErrTeamNotFound)

	overdue, err := svc.Overdue(ctx)
	require.NoError(t, err)
	require.Empty(t, overdue)

	// early is due 10 days after its transition, late two days after that
	clock.Advance(9 * 24 * time.Hour)
	overdue, err = svc.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, early.ID, overdue[0].ID)
}

func TestService_ListFiltersByTeam(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft := createCase(t, svc)
	moved := createCase(t, svc)
	res := transition(t, svc, moved, workflow.ActionMarkReadyToSend)

	listed, err := svc.List(ctx, casefile.ListOptions{TeamID: res.Case.AssignedTeam.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, moved.ID, listed[0].ID)

	drafts, err := svc.List(ctx, casefile.ListOptions{Statuses: []workflow.Status{workflow.StatusDraft}})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, draft.ID, drafts[0].ID)
}

func TestService_TeamsSeeded(t *testing.T) {
	svc, _, _ := newTestService(t)

	teams, err := svc.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, len(team.DefaultNames()))
}
