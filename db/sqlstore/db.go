package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect is the database/sql driver name of a supported database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectSQLite, DialectPostgres:
		return Dialect(s), nil
	default:
		return "", &UnsupportedDialectError{Dialect: s}
	}
}

type UnsupportedDialectError struct {
	Dialect string
}

func (err UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported database dialect %q", err.Dialect)
}

func (d Dialect) statementBuilder() sq.StatementBuilderType {
	if d == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// MigrationSet names the schema owned by one service.
type MigrationSet string

const (
	MigrationsPosts    MigrationSet = "posts"
	MigrationsComments MigrationSet = "comments"
	MigrationsReviews  MigrationSet = "reviews"
)

//go:embed migrations
var migrationsFS embed.FS

func NewDB(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql db: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping sql db: %w", err)
	}

	return db, nil
}

func getMigrateInstance(db *sql.DB, dialect Dialect, set MigrationSet) (*migrate.Migrate, error) {
	// each set keeps its own version table so services may share a database
	migrationsTable := "schema_migrations_" + string(set)

	var (
		driver database.Driver
		err    error
	)

	switch dialect {
	case DialectSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	case DialectPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	default:
		return nil, &UnsupportedDialectError{Dialect: string(dialect)}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", dialect, err)
	}

	d, err := iofs.New(migrationsFS, "migrations/"+string(set))
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, string(dialect), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}

func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect, set MigrationSet) error {
	m, err := getMigrateInstance(db, dialect, set)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migration: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current active migration version: %w", err)
	}

	slog.InfoContext(ctx, "migration applied successfully", "set", set, "version", version, "dirty", dirty)

	return nil
}

func MigrateDown(db *sql.DB, dialect Dialect, set MigrationSet) error {
	m, err := getMigrateInstance(db, dialect, set)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migration down: %w", err)
	}

	return nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	err := rows.Close()
	if err != nil {
		slog.ErrorContext(ctx, "failed to close rows", "error", err)
	}
}
