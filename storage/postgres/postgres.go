package postgres

import (
	"context"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/storage"
)

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

// New connects the pool and applies pending migrations.
func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.PostgresURL())
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		log.Error("failed to ping Postgres", logger.Error(err))
		pool.Close()
		return nil, err
	}

	m, err := NewMigrate(cfg)
	if err != nil {
		log.Error("migration init error", logger.Error(err))
		pool.Close()
		return nil, err
	}
	defer m.Close()

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
		} else {
			log.Error("migration up error", logger.Error(err))
			pool.Close()
			return nil, err
		}
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

func NewMigrate(cfg config.Config) (*migrate.Migrate, error) {
	mPath := storage.MigrationsDir(cfg.MigrationsPath, config.DriverPostgres)
	return migrate.New("file://"+mPath, cfg.PostgresURL())
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Reset empties every taxi table and restarts the id sequences.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE TABLE car_drivers, cars, drivers, manufacturers RESTART IDENTITY CASCADE")
	return err
}

func (s *Store) Manufacturer() storage.IManufacturerStorage {
	return NewManufacturerRepo(s.pool, s.log)
}

func (s *Store) Car() storage.ICarStorage       { return NewCarRepo(s.pool, s.log) }
func (s *Store) Driver() storage.IDriverStorage { return NewDriverRepo(s.pool, s.log) }

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrUniqueViolation
	}
	return err
}
