package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

// CaseService defines case operations needed by MCP.
type CaseService interface {
	CreateCase(ctx context.Context, req casefile.CreateRequest) (*casefile.Case, error)
	Get(ctx context.Context, id string) (*casefile.Case, error)
	List(ctx context.Context, opts casefile.ListOptions) ([]casefile.Case, error)
	CurrentActions(ctx context.Context, caseID string) ([]string, error)
	ApplyTransition(ctx context.Context, req casefile.TransitionRequest) (*casefile.TransitionResult, error)
	History(ctx context.Context, caseID string) ([]audit.Entry, error)
	Tasks(ctx context.Context, caseID string) ([]task.Task, error)
	Queue(ctx context.Context, teamName string) ([]casefile.Case, error)
	Overdue(ctx context.Context) ([]casefile.Case, error)
	Teams(ctx context.Context) ([]team.Team, error)
}

// Config contains server configuration.
type Config struct {
	Cases         CaseService
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "feeuplift",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(actorMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{cases: cfg.Cases, logger: cfg.Logger})

	return server
}
