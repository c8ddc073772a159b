// Package store persists cases, tasks, teams, parties and the audit trail
// in SQLite (embedded) or PostgreSQL (networked) through database/sql.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/party"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/migrations"
)

// DefaultSQLitePath is the embedded database file used when no location is configured.
const DefaultSQLitePath = "fee_uplift.db"

// Config locates the database. URL wins over Path.
type Config struct {
	URL  string
	Path string
}

// DB wraps a database connection and the SQL dialect it speaks.
type DB struct {
	*sql.DB
	dialect Dialect
}

var _ casefile.Store = (*DB)(nil)

// Open connects to PostgreSQL when cfg.URL is a postgres connection string and
// falls back to an embedded SQLite file otherwise.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	dialect, dsn, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}

	if dialect == SQLite {
		return New(dsn)
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{DB: sqlDB, dialect: Postgres}, nil
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers and keeps :memory: databases alive.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{DB: sqlDB, dialect: SQLite}, nil
}

// Resolve picks the dialect and driver DSN for cfg.
func Resolve(cfg Config) (Dialect, string, error) {
	url := strings.TrimSpace(cfg.URL)
	switch {
	case url == "":
		p := strings.TrimSpace(cfg.Path)
		if p == "" {
			p = DefaultSQLitePath
		}
		return SQLite, p, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres, url, nil
	case strings.HasPrefix(url, "sqlite:///"):
		return SQLite, strings.TrimPrefix(url, "sqlite:///"), nil
	case strings.HasPrefix(url, "sqlite://"):
		return SQLite, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return SQLite, url, nil
	}
	return "", "", fmt.Errorf("unsupported database url %q", url)
}

// Dialect reports which SQL flavour the connection speaks.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate applies the embedded migrations for the dialect that have not run yet.
func (db *DB) Migrate(ctx context.Context) error {
	createLedger := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dir := string(db.dialect)
	entries, err := fs.ReadDir(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")
		applied, err := db.migrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		body, err := fs.ReadFile(migrations.FS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		record := db.dialect.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, record, version, time.Now().UTC()); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", name, err)
		}
	}

	return nil
}

func (db *DB) migrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := db.dialect.Rebind(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)`)
	if err := db.QueryRowContext(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return exists, nil
}

// WithinTx runs fn against repositories bound to a single transaction.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, h casefile.Handle) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, handle{conn{q: tx, d: db.dialect}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) conn() conn {
	return conn{q: db.DB, d: db.dialect}
}

// Cases returns a case repository outside any transaction.
func (db *DB) Cases() casefile.CaseRepository { return handle{db.conn()}.Cases() }

// Tasks returns a task repository outside any transaction.
func (db *DB) Tasks() task.Repository { return handle{db.conn()}.Tasks() }

// Audit returns an audit repository outside any transaction.
func (db *DB) Audit() audit.Repository { return handle{db.conn()}.Audit() }

// Teams returns a team repository outside any transaction.
func (db *DB) Teams() team.Repository { return handle{db.conn()}.Teams() }

// Parties returns a provider/client repository outside any transaction.
func (db *DB) Parties() party.Repository { return handle{db.conn()}.Parties() }

// handle binds repositories to one connection or transaction.
type handle struct {
	c conn
}

func (h handle) Cases() casefile.CaseRepository { return &CaseRepository{c: h.c} }
func (h handle) Tasks() task.Repository         { return &TaskRepository{c: h.c} }
func (h handle) Audit() audit.Repository        { return &AuditRepository{c: h.c} }
func (h handle) Teams() team.Repository         { return &TeamRepository{c: h.c} }
func (h handle) Parties() party.Repository      { return &PartyRepository{c: h.c} }
