package casefile

import (
	"context"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/party"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

// CaseRepository provides persistence for cases.
type CaseRepository interface {
	Create(ctx context.Context, c *Case) error
	Get(ctx context.Context, id string) (*Case, error)
	// Update writes c only if the stored version equals expectedVersion.
	Update(ctx context.Context, c *Case, expectedVersion int64) error
	List(ctx context.Context, opts ListOptions) ([]Case, error)
}

// Handle exposes the repositories of one unit of work.
type Handle interface {
	Cases() CaseRepository
	Tasks() task.Repository
	Audit() audit.Repository
	Teams() team.Repository
	Parties() party.Repository
}

// Store is a transactional data store. Its own Handle methods run outside
// any transaction and are meant for reads.
type Store interface {
	Handle
	// WithinTx runs fn in one transaction. fn's error rolls everything back
	// and is returned unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context, h Handle) error) error
}
