package sqlstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/migration"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/migrations"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store implements storage.Provider on top of a SQL database. The same
// queries serve sqlite and postgres; placeholders are rebound per driver.
type Store struct {
	driver string
	dsn    string
	db     *sqlx.DB
	now    func() time.Time
}

var _ storage.Provider = (*Store)(nil)

// NewSQLite returns a store backed by a database file at path
func NewSQLite(path string) *Store {
	return &Store{driver: DriverSQLite, dsn: path, now: time.Now}
}

// NewPostgres returns a store for a PostgreSQL connection string. The
// connection's search_path defaults to the application schema.
func NewPostgres(connStr string) *Store {
	return &Store{driver: DriverPostgres, dsn: withSearchPath(connStr), now: time.Now}
}

// NewWithDB wraps an already open connection
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{driver: db.DriverName(), db: db, now: time.Now}
}

func (s *Store) open(ctx context.Context) (*sqlx.DB, error) {
	dsn := s.dsn
	if s.driver == DriverSQLite {
		dsn = sqliteDSN(s.dsn)
	}

	db, err := sqlx.Open(s.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if s.driver == DriverSQLite {
		// sqlite serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.dsn, "sslmode") {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Debug("database connected", "driver", s.driver)
	return db, nil
}

func sqliteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Init creates the database if needed and applies pending migrations
func (s *Store) Init(ctx context.Context) error {
	if s.db == nil {
		if s.driver == DriverSQLite {
			if err := os.MkdirAll(filepath.Dir(s.dsn), 0700); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
		}

		db, err := s.open(ctx)
		if err != nil {
			return err
		}
		s.db = db
	}

	if s.driver == DriverPostgres {
		if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(ctx, func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an existing database and checks its schema version
func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if s.driver == DriverSQLite {
		if _, err := os.Stat(s.dsn); os.IsNotExist(err) {
			return fmt.Errorf("%w: no database at %s", storage.ErrNotInitialized, s.dsn)
		}
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	s.db = db

	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.Validate(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate applies pending migrations, reporting progress through logFn
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.db == nil {
		return 0, storage.ErrNotInitialized
	}
	runner, err := s.migrationRunner()
	if err != nil {
		return 0, err
	}
	return runner.Apply(ctx, logFn)
}

// SchemaStatus reports the recorded and latest schema versions
func (s *Store) SchemaStatus(ctx context.Context) (migration.Status, error) {
	if s.db == nil {
		return migration.Status{}, storage.ErrNotInitialized
	}
	runner, err := s.migrationRunner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status(ctx)
}

func (s *Store) migrationRunner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, s.driver)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.driver, err)
	}
	return migration.NewRunner(s.db, sub), nil
}

// GetConfigPath returns the database file, or a non-sensitive label for
// network databases.
func (s *Store) GetConfigPath() string {
	if s.driver == DriverSQLite {
		return s.dsn
	}
	return "postgresql"
}

// Driver returns the database driver name
func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
