package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Admin performs database setup operations: creating and resetting the
// application database, testing connectivity, and verifying the schema.
// It connects with single short-lived connections rather than the pool,
// since the target database may not exist yet.
type Admin struct {
	cfg Config
}

// NewAdmin creates an Admin for the given configuration.
func NewAdmin(cfg Config) *Admin {
	return &Admin{cfg: cfg}
}

// quoteIdent quotes a PostgreSQL identifier. CREATE/DROP DATABASE cannot
// take bind parameters.
func quoteIdent(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, name[i])
	}
	return string(append(out, '"'))
}

// CreateDatabase creates the application database if it does not exist.
// Returns true if the database was created, false if it already existed.
func (a *Admin) CreateDatabase(ctx context.Context) (bool, error) {
	conn, err := pgx.Connect(ctx, a.cfg.ServerDSN())
	if err != nil {
		return false, fmt.Errorf("postgres: connect to server: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", a.cfg.Database,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: check database existence: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+quoteIdent(a.cfg.Database)); err != nil {
		return false, fmt.Errorf("postgres: create database: %w", err)
	}
	return true, nil
}

// ResetDatabase drops and recreates the application database. All data
// is lost. Existing connections to the database are terminated first.
func (a *Admin) ResetDatabase(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, a.cfg.ServerDSN())
	if err != nil {
		return fmt.Errorf("postgres: connect to server: %w", err)
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("postgres: terminate connections: %w", err)
	}

	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+quoteIdent(a.cfg.Database)); err != nil {
		return fmt.Errorf("postgres: drop database: %w", err)
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+quoteIdent(a.cfg.Database)); err != nil {
		return fmt.Errorf("postgres: recreate database: %w", err)
	}
	return nil
}

// TestConnection connects to the application database and reports the
// server version.
func (a *Admin) TestConnection(ctx context.Context) (string, error) {
	conn, err := pgx.Connect(ctx, a.cfg.DSN())
	if err != nil {
		return "", fmt.Errorf("postgres: connect: %w", err)
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("postgres: query version: %w", err)
	}
	return version, nil
}

// CheckTables verifies that the required tables exist. It returns the
// tables found and the required tables that are missing.
func (a *Admin) CheckTables(ctx context.Context) (existing, missing []string, err error) {
	conn, err := pgx.Connect(ctx, a.cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: connect: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: list tables: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, nil, fmt.Errorf("postgres: scan table name: %w", err)
		}
		existing = append(existing, name)
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	for _, t := range RequiredTables {
		if !found[t] {
			missing = append(missing, t)
		}
	}
	return existing, missing, nil
}
