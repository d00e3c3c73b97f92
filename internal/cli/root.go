// Package cli implements loginctl, the maintenance and terminal front end of
// the login form.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/loginform/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/loginform/internal/config"
	"github.com/ericfisherdev/loginform/internal/sqlhelper"
)

type options struct {
	envFile string
	timeout time.Duration
	json    bool
}

// NewRootCommand builds the loginctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "loginctl",
		Short:        "Login form tooling",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "machine-readable output")

	cmd.AddCommand(
		newTUICommand(opts),
		newMigrateCommand(opts),
		newUserCommand(opts),
		newCheckCommand(opts),
	)
	return cmd
}

// session is what a subcommand works with once configuration is loaded and
// the database is open.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlhelper.Helper
	users  *sqliteadapter.UserRepo
}

func (s *session) close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// Schema policies for openSession. Only commands that write credentials
// apply pending migrations; read-only commands leave the schema untouched.
const (
	migrateSchema = true
	keepSchema    = false
)

// openSession loads configuration, opens the database and, when migrate is
// set, brings the schema up to date. Logs go to logOut.
func openSession(ctx context.Context, opts *options, logOut io.Writer, migrate bool) (*session, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := sqliteadapter.NewDB(ctx, cfg.ConnString, logger)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, db: db, users: sqliteadapter.NewUserRepo(db)}

	if migrate {
		sqlDB, err := db.DB(ctx)
		if err != nil {
			s.close()
			return nil, err
		}
		if err := sqliteadapter.RunMigrations(sqlDB); err != nil {
			s.close()
			return nil, err
		}
	}
	return s, nil
}

// run executes fn with a session under the command timeout and reports the
// result in text or JSON form.
func run(cmd *cobra.Command, opts *options, title string, migrate bool, fn func(context.Context, *session) ([]string, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	details, err := func() ([]string, error) {
		s, err := openSession(ctx, opts, cmd.ErrOrStderr(), migrate)
		if err != nil {
			return nil, err
		}
		defer s.close()
		return fn(ctx, s)
	}()

	if opts.json {
		if printErr := printJSONResult(cmd.OutOrStdout(), title, details, err); printErr != nil {
			return printErr
		}
	} else {
		printTextResult(cmd.OutOrStdout(), title, details, err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", title, err)
	}
	return nil
}

// Execute runs loginctl with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
