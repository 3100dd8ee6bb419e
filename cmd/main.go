package main

import (
	"context"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/storage"
	"taxiservice/storage/postgres"
	"taxiservice/storage/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "taxiservice",
	Short: "Taxi fleet management service",
	Long: `Taxi fleet management service.

Runs the web application (default), manages the database schema
and creates admin accounts. Configuration is read from the environment
and an optional .env file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) logger.ILogger {
	return logger.New(cfg.ServiceName, cfg.LoggerLevel)
}

// openStorage connects the configured backend and migrates it to the latest schema.
func openStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg, log)
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (want %q or %q)", cfg.DBDriver, config.DriverPostgres, config.DriverSQLite)
	}
}

func newMigrate(cfg config.Config) (*migrate.Migrate, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.NewMigrate(cfg)
	case config.DriverSQLite:
		return sqlite.NewMigrate(cfg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
