package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/loginform/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/loginform/internal/application"
	"github.com/ericfisherdev/loginform/internal/domain/model"
	"github.com/ericfisherdev/loginform/internal/domain/port/driven"
)

// errRejected makes a refused login exit non-zero.
var errRejected = errors.New("login rejected")

// procedureStore answers CountMatching through the catalogued login procedure.
type procedureStore struct {
	*sqliteadapter.UserRepo
}

func (p procedureStore) CountMatching(ctx context.Context, cred model.Credential) (int, error) {
	return p.CountMatchingProc(ctx, cred)
}

func newCheckCommand(opts *options) *cobra.Command {
	var (
		password  string
		procedure bool
	)
	cmd := &cobra.Command{
		Use:   "check USERNAME",
		Short: "Run one login attempt and print the message the form would show",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			}
			return run(cmd, opts, "check", keepSchema, func(ctx context.Context, s *session) ([]string, error) {
				var store driven.UserStore = s.users
				if procedure {
					store = procedureStore{s.users}
				}
				svc := application.NewLoginService(store, s.cfg.QueryTimeout, s.logger)
				outcome, err := svc.Attempt(ctx, username, password)
				if err != nil {
					return nil, err
				}
				details := []string{outcome.Message()}
				if !outcome.Succeeded() {
					return details, errRejected
				}
				return details, nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to check")
	cmd.Flags().BoolVar(&procedure, "procedure", false, "check through the "+sqliteadapter.LoginProcedure+" stored procedure")
	return cmd
}
