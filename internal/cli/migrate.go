package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/loginform/internal/adapter/driven/sqlite"
)

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tooling",
	}
	cmd.AddCommand(
		newMigrateUpCommand(opts),
		newMigrateDownCommand(opts),
		newMigrateVersionCommand(opts),
	)
	return cmd
}

func newMigrateUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, "migrate up", keepSchema, func(ctx context.Context, s *session) ([]string, error) {
				sqlDB, err := s.db.DB(ctx)
				if err != nil {
					return nil, err
				}
				if err := sqliteadapter.RunMigrations(sqlDB); err != nil {
					return nil, err
				}
				return versionDetails(sqlDB)
			})
		},
	}
}

func newMigrateDownCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, "migrate down", keepSchema, func(ctx context.Context, s *session) ([]string, error) {
				sqlDB, err := s.db.DB(ctx)
				if err != nil {
					return nil, err
				}
				if err := sqliteadapter.RollbackMigration(sqlDB); err != nil {
					return nil, err
				}
				return versionDetails(sqlDB)
			})
		},
	}
}

func newMigrateVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, "migrate version", keepSchema, func(ctx context.Context, s *session) ([]string, error) {
				sqlDB, err := s.db.DB(ctx)
				if err != nil {
					return nil, err
				}
				return versionDetails(sqlDB)
			})
		},
	}
}

func versionDetails(sqlDB *sql.DB) ([]string, error) {
	version, dirty, err := sqliteadapter.MigrationVersion(sqlDB)
	if err != nil {
		return nil, err
	}
	details := []string{fmt.Sprintf("schema version: %d", version)}
	if dirty {
		details = append(details, "schema is dirty: the last migration failed part way")
	}
	return details, nil
}
