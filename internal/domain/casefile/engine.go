package casefile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
	"github.com/rpggio/feeuplift/internal/repository"
)

// EngineOptions configures an Engine. Zero values select defaults.
type EngineOptions struct {
	Routing     workflow.RoutingPolicy
	TaskDueDays int
	Now         func() time.Time
	Logger      *slog.Logger
}

// Engine applies workflow transitions to cases. It holds no per-request
// state; the unit of work is passed to every call.
type Engine struct {
	routing  workflow.RoutingPolicy
	teams    *team.Directory
	spawner  *task.Spawner
	recorder *audit.Recorder
	now      func() time.Time
	logger   *slog.Logger
}

// NewEngine creates a workflow engine.
func NewEngine(opts EngineOptions) *Engine {
	routing := opts.Routing
	if routing == nil {
		routing = workflow.DefaultRouting
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	spawner := task.NewSpawner(opts.TaskDueDays)
	spawner.Now = now
	recorder := audit.NewRecorder()
	recorder.Now = now
	return &Engine{
		routing:  routing,
		teams:    team.NewDirectory(opts.Logger),
		spawner:  spawner,
		recorder: recorder,
		now:      now,
		logger:   opts.Logger,
	}
}

// Apply moves c along the transition named by action. c itself is never
// modified; the updated copy is returned in the result. An illegal action
// fails before anything is written. Any later error leaves partial writes
// in h, so the caller must roll back the unit of work.
func (e *Engine) Apply(ctx context.Context, h Handle, c *Case, actor audit.Actor, action, note string) (*TransitionResult, error) {
	if c == nil {
		return nil, ErrInvalidInput
	}

	tr, ok := workflow.Lookup(c.Status, action)
	if !ok {
		return nil, &TransitionError{From: c.Status, Action: action, Allowed: workflow.ActionsFor(c.Status)}
	}

	now := e.now()
	next := *c
	next.Status = tr.To

	due := now.AddDate(0, 0, next.SLADays)
	next.DueAt = &due

	owner, err := e.route(ctx, h, &next)
	if err != nil {
		return nil, err
	}

	next.UpdatedAt = now
	next.Version = c.Version + 1
	if err := h.Cases().Update(ctx, &next, c.Version); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("updating case: %w", err)
	}

	spawned, err := e.spawner.Spawn(ctx, h.Tasks(), next.ID, owner, TaskTitle(tr.To), 0)
	if err != nil {
		return nil, err
	}

	entry, err := e.recorder.Record(ctx, h.Audit(), next.ID, actor, tr.AuditAction, note, map[string]any{
		"from":  string(tr.From),
		"to":    string(tr.To),
		"label": tr.Action,
	})
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Debug("case transitioned", "case_id", next.ID, "from", tr.From, "to", tr.To, "actor", actor.String())
	}

	return &TransitionResult{
		Case:       &next,
		Transition: tr,
		Task:       spawned,
		Entry:      entry,
	}, nil
}

// AssignTeam sets c.AssignedTeam from the routing hint of its current status.
func (e *Engine) AssignTeam(ctx context.Context, h Handle, c *Case) error {
	_, err := e.route(ctx, h, c)
	return err
}

// Record appends an audit entry for c outside the transition table.
func (e *Engine) Record(ctx context.Context, h Handle, c *Case, actor audit.Actor, action, note string) (*audit.Entry, error) {
	return e.recorder.Record(ctx, h.Audit(), c.ID, actor, action, note, nil)
}

// History returns the audit trail of a case in chronological order.
func (e *Engine) History(ctx context.Context, h Handle, caseID string) ([]audit.Entry, error) {
	return e.recorder.History(ctx, h.Audit(), caseID)
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) route(ctx context.Context, h Handle, c *Case) (*team.Team, error) {
	name, ok := e.routing.NextTeam(c.Status)
	if !ok {
		c.AssignedTeam = nil
		return nil, nil
	}
	owner, err := e.teams.Resolve(ctx, h.Teams(), name)
	if err != nil {
		return nil, err
	}
	ref := owner.Ref()
	c.AssignedTeam = &ref
	return owner, nil
}

// TaskTitle is the title of the task spawned on entering status.
func TaskTitle(status workflow.Status) string {
	return fmt.Sprintf("%s — next step", status)
}
