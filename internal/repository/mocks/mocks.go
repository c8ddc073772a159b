package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/party"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

// CaseRepository is a mock for casefile.CaseRepository.
type CaseRepository struct {
	mock.Mock
}

func (m *CaseRepository) Create(ctx context.Context, c *casefile.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaseRepository) Get(ctx context.Context, id string) (*casefile.Case, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*casefile.Case); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CaseRepository) Update(ctx context.Context, c *casefile.Case, expectedVersion int64) error {
	args := m.Called(ctx, c, expectedVersion)
	return args.Error(0)
}

func (m *CaseRepository) List(ctx context.Context, opts casefile.ListOptions) ([]casefile.Case, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]casefile.Case); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) ListByCase(ctx context.Context, caseID string) ([]task.Task, error) {
	args := m.Called(ctx, caseID)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) ListOpenByTeam(ctx context.Context, teamID string) ([]task.Task, error) {
	args := m.Called(ctx, teamID)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AuditRepository is a mock for audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *AuditRepository) ListByCase(ctx context.Context, caseID string) ([]audit.Entry, error) {
	args := m.Called(ctx, caseID)
	if list, ok := args.Get(0).([]audit.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TeamRepository is a mock for team.Repository.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Ensure(ctx context.Context, name string) (*team.Team, error) {
	args := m.Called(ctx, name)
	if t, ok := args.Get(0).(*team.Team); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) GetByName(ctx context.Context, name string) (*team.Team, error) {
	args := m.Called(ctx, name)
	if t, ok := args.Get(0).(*team.Team); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]team.Team); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PartyRepository is a mock for party.Repository.
type PartyRepository struct {
	mock.Mock
}

func (m *PartyRepository) EnsureProvider(ctx context.Context, name string) (*party.Provider, error) {
	args := m.Called(ctx, name)
	if p, ok := args.Get(0).(*party.Provider); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) EnsureClient(ctx context.Context, client *party.Client) (*party.Client, error) {
	args := m.Called(ctx, client)
	if c, ok := args.Get(0).(*party.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) GetProvider(ctx context.Context, id string) (*party.Provider, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*party.Provider); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) GetClient(ctx context.Context, id string) (*party.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*party.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// Handle bundles the repository mocks into a casefile.Handle.
type Handle struct {
	CaseRepo  *CaseRepository
	TaskRepo  *TaskRepository
	AuditRepo *AuditRepository
	TeamRepo  *TeamRepository
	PartyRepo *PartyRepository
}

// NewHandle returns a Handle with fresh mocks.
func NewHandle() *Handle {
	return &Handle{
		CaseRepo:  &CaseRepository{},
		TaskRepo:  &TaskRepository{},
		AuditRepo: &AuditRepository{},
		TeamRepo:  &TeamRepository{},
		PartyRepo: &PartyRepository{},
	}
}

func (h *Handle) Cases() casefile.CaseRepository { return h.CaseRepo }
func (h *Handle) Tasks() task.Repository         { return h.TaskRepo }
func (h *Handle) Audit() audit.Repository        { return h.AuditRepo }
func (h *Handle) Teams() team.Repository         { return h.TeamRepo }
func (h *Handle) Parties() party.Repository      { return h.PartyRepo }
