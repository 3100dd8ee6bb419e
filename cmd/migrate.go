package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"taxiservice/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  `Manage the database schema of the backend selected by DB_DRIVER.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrate(config.Load())
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer func() { _, _ = m.Close() }()

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				cmd.Println("No migrations to run - database is up to date")
				return nil
			}
			return fmt.Errorf("migration failed: %w", err)
		}
		return printVersion(cmd, m)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default: 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid number of steps %q", args[0])
			}
			steps = n
		}

		m, err := newMigrate(config.Load())
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer func() { _, _ = m.Close() }()

		cmd.Printf("Rolling back %d migration(s)...\n", steps)
		if err := m.Steps(-steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		return printVersion(cmd, m)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrate(config.Load())
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer func() { _, _ = m.Close() }()
		return printVersion(cmd, m)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func printVersion(cmd *cobra.Command, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		cmd.Println("No migrations have been applied yet")
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Printf("Current version: %d\n", version)
	if dirty {
		cmd.Println("Warning: database is in a dirty state")
	}
	return nil
}
