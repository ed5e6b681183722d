// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/codr1/Arena/internal/config"
	dbgen "github.com/codr1/Arena/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the league database: the raw handle plus the generated queries bound
// to it.
type DB struct {
	*sql.DB
	Queries *dbgen.Queries
}

// sqliteParams are appended to every DSN unless the caller set them.
// Foreign keys carry the cascades from sports to teams, matches and rosters.
var sqliteParams = []string{"_fk=1", "_busy_timeout=5000"}

// New opens the SQLite file, applies the embedded migrations and binds the
// queries.
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := OpenRaw(dataSourceName)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY under load.
	sqlDB.SetMaxOpenConns(1)

	if err := migrateUp(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{DB: sqlDB, Queries: dbgen.New(sqlDB)}, nil
}

// NewFromConfig opens the configured database, creating its directory.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	if cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return New(cfg.Database.Filename)
}

// OpenRaw opens the SQLite database without applying migrations.
func OpenRaw(dataSourceName string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", withSQLiteParams(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return sqlDB, nil
}

func withSQLiteParams(dsn string) string {
	for _, param := range sqliteParams {
		key, _, _ := strings.Cut(param, "=")
		if strings.Contains(dsn, key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + param
	}
	return dsn
}

// Migrator returns a migrate instance over the embedded migrations, used by
// arenactl for up/down/version.
func Migrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return m, nil
}

func migrateUp(db *sql.DB) error {
	m, err := Migrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// RunInTx runs fn with queries bound to a transaction. The transaction
// commits when fn returns nil and rolls back otherwise, including on panic.
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) (err error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&DB{DB: db.DB, Queries: db.Queries.WithTx(tx)}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
