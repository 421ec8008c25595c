package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	_ "github.com/lib/pq" // database/sql driver used by goose for postgres
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// goose keeps dialect and filesystem in package globals.
var migrateMu sync.Mutex

// Migrate applies all pending migrations for the database at databaseURL.
func Migrate(ctx context.Context, databaseURL string) error {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return err
	}

	var (
		db           *sql.DB
		gooseDialect string
	)
	switch dialect {
	case DialectPostgres:
		db, err = sql.Open("postgres", dsn)
		gooseDialect = "postgres"
	case DialectSQLite:
		db, err = openSQLite(dsn)
		gooseDialect = "sqlite3"
	default:
		return ErrUnsupportedScheme
	}
	if err != nil {
		return fmt.Errorf("opening database for migrations: %w", err)
	}
	defer db.Close()

	return migrateDB(ctx, db, gooseDialect, "migrations/"+string(dialect))
}

func migrateDB(ctx context.Context, db *sql.DB, gooseDialect, dir string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// MigrationFiles lists the embedded migration files for a dialect.
func MigrationFiles(dialect Dialect) ([]string, error) {
	return fs.Glob(migrations, "migrations/"+string(dialect)+"/*.sql")
}
