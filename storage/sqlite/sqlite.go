// Package sqlite is the embedded storage backend, used for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/storage"
)

type Store struct {
	db  *sql.DB
	log logger.ILogger
}

// New opens the database file and applies pending migrations.
func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	m, err := NewMigrate(cfg)
	if err != nil {
		log.Error("migration init error", logger.Error(err))
		return nil, err
	}
	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
		} else {
			log.Error("migration up error", logger.Error(err))
			m.Close()
			return nil, err
		}
	}
	m.Close()

	db, err := sql.Open("sqlite", "file:"+cfg.SQLitePath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		log.Error("failed to open SQLite", logger.Error(err))
		return nil, err
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping SQLite", logger.Error(err))
		db.Close()
		return nil, err
	}

	log.Info("SQLite opened", logger.String("path", cfg.SQLitePath))

	return &Store{db: db, log: log}, nil
}

func NewMigrate(cfg config.Config) (*migrate.Migrate, error) {
	mPath := storage.MigrationsDir(cfg.MigrationsPath, config.DriverSQLite)
	dbPath, err := filepath.Abs(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return migrate.New("file://"+mPath, "sqlite://"+dbPath)
}

func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		s.log.Warning("failed to close SQLite", logger.Error(err))
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Reset empties every taxi table and restarts the id sequences.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM car_drivers",
		"DELETE FROM cars",
		"DELETE FROM drivers",
		"DELETE FROM manufacturers",
		"DELETE FROM sqlite_sequence WHERE name IN ('cars', 'drivers', 'manufacturers')",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Manufacturer() storage.IManufacturerStorage {
	return &manufacturerRepo{db: s.db, log: s.log}
}

func (s *Store) Car() storage.ICarStorage       { return &carRepo{db: s.db, log: s.log} }
func (s *Store) Driver() storage.IDriverStorage { return &driverRepo{db: s.db, log: s.log} }

func translate(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return storage.ErrUniqueViolation
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}
