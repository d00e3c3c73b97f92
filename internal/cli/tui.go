package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/loginform/internal/adapter/driving/tui"
	"github.com/ericfisherdev/loginform/internal/application"
)

func newTUICommand(opts *options) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal login form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The form owns the terminal; logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}

			s, err := openSession(cmd.Context(), opts, logOut, keepSchema)
			if err != nil {
				return err
			}
			defer s.close()

			svc := application.NewLoginService(s.users, s.cfg.QueryTimeout, s.logger)
			return tui.Run(cmd.Context(), svc)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file while the form is open")
	return cmd
}
