package casefile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/party"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/rpggio/feeuplift/internal/repository"
)

// Service handles case business logic on top of a transactional store.
type Service struct {
	store          Store
	engine         *Engine
	teams          *team.Directory
	defaultSLADays int
	logger         *slog.Logger
}

// NewService creates a new case service. defaultSLADays <= 0 selects DefaultSLADays.
func NewService(store Store, engine *Engine, defaultSLADays int, logger *slog.Logger) *Service {
	if defaultSLADays <= 0 {
		defaultSLADays = DefaultSLADays
	}
	return &Service{
		store:          store,
		engine:         engine,
		teams:          team.NewDirectory(logger),
		defaultSLADays: defaultSLADays,
		logger:         logger,
	}
}

// CreateRequest describes a case creation request.
type CreateRequest struct {
	Title             string
	ClientName        string
	ClientIOReference string
	ProviderName      string
	SignatureType     SignatureType
	SLADays           int
	Actor             audit.Actor
}

// TransitionRequest describes a transition request. ExpectedVersion, when
// set, rejects the request with ErrConflict if the case moved on since the
// caller last read it.
type TransitionRequest struct {
	CaseID          string
	Actor           audit.Actor
	Action          string
	Note            string
	ExpectedVersion *int64
}

// Bootstrap seeds reference data into a fresh store.
func (s *Service) Bootstrap(ctx context.Context) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, h Handle) error {
		return s.teams.SeedDefaults(ctx, h.Teams())
	})
}

// CreateCase creates a case in the initial status, routes it and records
// the creation in its audit trail, all in one transaction.
func (s *Service) CreateCase(ctx context.Context, req CreateRequest) (*Case, error) {
	if err := ValidateCreateInput(&req); err != nil {
		return nil, err
	}
	slaDays := req.SLADays
	if slaDays == 0 {
		slaDays = s.defaultSLADays
	}

	var created *Case
	err := s.store.WithinTx(ctx, func(ctx context.Context, h Handle) error {
		provider, err := h.Parties().EnsureProvider(ctx, req.ProviderName)
		if err != nil {
			return fmt.Errorf("ensuring provider: %w", err)
		}
		client, err := h.Parties().EnsureClient(ctx, &party.Client{
			Name:        req.ClientName,
			IOReference: req.ClientIOReference,
			ProviderID:  &provider.ID,
		})
		if err != nil {
			return fmt.Errorf("ensuring client: %w", err)
		}

		now := s.engine.Now()
		c := &Case{
			ID:            uuid.NewString(),
			Title:         req.Title,
			ClientID:      client.ID,
			ClientName:    client.Name,
			ProviderID:    provider.ID,
			ProviderName:  provider.Name,
			SignatureType: req.SignatureType,
			Status:        workflow.InitialStatus,
			SLADays:       slaDays,
			CreatedAt:     now,
			UpdatedAt:     now,
			Version:       1,
		}
		if err := s.engine.AssignTeam(ctx, h, c); err != nil {
			return err
		}
		if err := h.Cases().Create(ctx, c); err != nil {
			return fmt.Errorf("creating case: %w", err)
		}
		if _, err := s.engine.Record(ctx, h, c, req.Actor, audit.ActionCreated, "Case created"); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, s.mapError("creating case", err)
	}

	if s.logger != nil {
		s.logger.Info("case created", "case_id", created.ID, "client", created.ClientName, "provider", created.ProviderName)
	}
	return created, nil
}

// ApplyTransition loads the case and applies the action atomically.
func (s *Service) ApplyTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if strings.TrimSpace(req.CaseID) == "" {
		return nil, &ValidationError{Field: "case_id", Reason: "required"}
	}

	var result *TransitionResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, h Handle) error {
		current, err := h.Cases().Get(ctx, req.CaseID)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != current.Version {
			return ErrConflict
		}
		res, err := s.engine.Apply(ctx, h, current, req.Actor, req.Action, req.Note)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("transition rejected", "case_id", req.CaseID, "action", req.Action, "error", err)
		}
		return nil, s.mapError("applying transition", err)
	}

	if s.logger != nil {
		s.logger.Info("case transitioned", "case_id", result.Case.ID, "status", result.Case.Status, "actor", req.Actor.String())
	}
	return result, nil
}

// Get returns a case by ID.
func (s *Service) Get(ctx context.Context, id string) (*Case, error) {
	c, err := s.store.Cases().Get(ctx, id)
	if err != nil {
		return nil, s.mapError("getting case", err)
	}
	return c, nil
}

// List returns cases matching the options.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Case, error) {
	cases, err := s.store.Cases().List(ctx, opts)
	if err != nil {
		return nil, s.mapError("listing cases", err)
	}
	return cases, nil
}

// Queue returns the cases a team is expected to act on, soonest due first.
func (s *Service) Queue(ctx context.Context, teamName string) ([]Case, error) {
	owner, err := s.teams.Lookup(ctx, s.store.Teams(), teamName)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			return nil, err
		}
		return nil, s.mapError("loading team", err)
	}
	return s.List(ctx, ListOptions{
		TeamID:          owner.ID,
		ExcludeStatuses: []workflow.Status{workflow.StatusCompleted},
		OrderByDue:      true,
	})
}

// Overdue returns unfinished cases whose due date has passed.
func (s *Service) Overdue(ctx context.Context) ([]Case, error) {
	now := s.engine.Now()
	return s.List(ctx, ListOptions{
		DueBefore:       &now,
		ExcludeStatuses: []workflow.Status{workflow.StatusCompleted},
		OrderByDue:      true,
	})
}

// History returns the case's audit trail in chronological order.
func (s *Service) History(ctx context.Context, caseID string) ([]audit.Entry, error) {
	if _, err := s.Get(ctx, caseID); err != nil {
		return nil, err
	}
	entries, err := s.engine.History(ctx, s.store, caseID)
	if err != nil {
		return nil, s.mapError("loading history", err)
	}
	return entries, nil
}

// CurrentActions returns the action labels valid for the case right now.
func (s *Service) CurrentActions(ctx context.Context, caseID string) ([]string, error) {
	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	actions := workflow.ActionsFor(c.Status)
	if actions == nil {
		actions = []string{}
	}
	return actions, nil
}

// Tasks returns the follow-up tasks spawned for a case, oldest first.
func (s *Service) Tasks(ctx context.Context, caseID string) ([]task.Task, error) {
	if _, err := s.Get(ctx, caseID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().ListByCase(ctx, caseID)
	if err != nil {
		return nil, s.mapError("listing tasks", err)
	}
	return tasks, nil
}

// Teams returns the team directory.
func (s *Service) Teams(ctx context.Context) ([]team.Team, error) {
	teams, err := s.teams.List(ctx, s.store.Teams())
	if err != nil {
		return nil, s.mapError("listing teams", err)
	}
	return teams, nil
}

func (s *Service) mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrIllegalTransition),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrCaseNotFound):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ErrCaseNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case errors.Is(err, repository.ErrForeignKeyViolation),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, team.ErrInvalidInput),
		errors.Is(err, audit.ErrInvalidInput):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
