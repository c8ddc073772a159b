// Package cli implements the feeuplift command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rpggio/feeuplift/internal/config"
	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/store"
)

// app holds state shared by every command of one invocation.
type app struct {
	configPath string
	actorID    string
	jsonOutput bool

	cfg     config.Config
	logger  *slog.Logger
	closers []io.Closer
	db      *store.DB
	cases   *casefile.Service
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "feeuplift",
		Short: "Fee uplift case workflow tracker",
		Long: `feeuplift tracks fee uplift cases through their workflow, routes each
case to the team that acts next, spawns follow-up tasks and keeps an
immutable audit trail of every change.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default is $FEEUPLIFT_CONFIG_PATH)")
	root.PersistentFlags().StringVar(&a.actorID, "actor", "", "acting user id (default is the system actor)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newTeamsCmd(a),
		newQueueCmd(a),
		newOverdueCmd(a),
		newCaseCmd(a),
	)
	return root, a
}

// Execute runs the command line with the process arguments.
func Execute() error {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRootCommand()
	defer a.close()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) actor() audit.Actor {
	return audit.User(a.actorID)
}

// open loads configuration, connects the store, applies migrations and
// seeds reference data. Logs go to logWriter unless a log file is configured.
func (a *app) open(ctx context.Context, logWriter io.Writer) error {
	if a.cases != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	a.cfg = cfg

	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, fileWriter)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if cfg.DB.URL == "" {
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return fmt.Errorf("failed to prepare database path: %w", err)
		}
	}

	db, err := store.Open(ctx, store.Config{URL: cfg.DB.URL, Path: cfg.DB.Path})
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, db)

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	engine := casefile.NewEngine(casefile.EngineOptions{
		TaskDueDays: cfg.Workflow.TaskDueDays,
		Logger:      a.logger,
	})
	a.cases = casefile.NewService(db, engine, cfg.Workflow.DefaultSLADays, a.logger)
	if err := a.cases.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to seed teams: %w", err)
	}

	a.logger.Debug("store ready", "dialect", db.Dialect())
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	a.cases = nil
	a.db = nil
	return first
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed the default teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database ready (%s)\n", a.db.Dialect())
			return nil
		},
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
