package cli

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/loginform/internal/domain/model"
)

// errEmptyInput reports a missing username or password on the command line.
var errEmptyInput = errors.New("username and password must not be empty")

func newUserCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage stored credentials",
	}
	cmd.AddCommand(
		newUserAddCommand(opts),
		newUserRemoveCommand(opts),
		newUserListCommand(opts),
		newUserImportCommand(opts),
	)
	return cmd
}

func newUserAddCommand(opts *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Add a credential (password from --password or the first line of stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = line
			}
			cred := model.Credential{
				Username: strings.TrimSpace(args[0]),
				Password: strings.TrimSpace(password),
			}
			return run(cmd, opts, "user add", migrateSchema, func(ctx context.Context, s *session) ([]string, error) {
				if cred.Username == "" || cred.Password == "" {
					return nil, errEmptyInput
				}
				if err := s.users.Add(ctx, cred); err != nil {
					return nil, err
				}
				return []string{"added " + cred.Username}, nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to store")
	return cmd
}

func newUserRemoveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove USERNAME",
		Short: "Remove a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			return run(cmd, opts, "user remove", migrateSchema, func(ctx context.Context, s *session) ([]string, error) {
				if err := s.users.Remove(ctx, username); err != nil {
					return nil, err
				}
				return []string{"removed " + username}, nil
			})
		},
	}
}

func newUserListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored usernames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, "user list", keepSchema, func(ctx context.Context, s *session) ([]string, error) {
				users, err := s.users.List(ctx)
				if err != nil {
					return nil, err
				}
				details := make([]string, 0, len(users))
				for _, u := range users {
					details = append(details, fmt.Sprintf("%s (id %d, created %s)", u.Username, u.ID, u.CreatedAt.UTC().Format(time.RFC3339)))
				}
				return details, nil
			})
		},
	}
}

func newUserImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import username,password CSV rows in one transaction (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, "user import", migrateSchema, func(ctx context.Context, s *session) ([]string, error) {
				if err := s.users.Import(ctx, creds); err != nil {
					return nil, err
				}
				return []string{fmt.Sprintf("imported %d users", len(creds))}, nil
			})
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readCredentials parses a two-column CSV. A leading "username,password"
// header row is skipped.
func readCredentials(stdin io.Reader, path string) ([]model.Credential, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	creds := make([]model.Credential, 0, len(records))
	for i, rec := range records {
		cred := model.Credential{
			Username: strings.TrimSpace(rec[0]),
			Password: strings.TrimSpace(rec[1]),
		}
		if i == 0 && strings.EqualFold(cred.Username, "username") && strings.EqualFold(cred.Password, "password") {
			continue
		}
		if cred.Username == "" || cred.Password == "" {
			return nil, fmt.Errorf("import row %d: %w", i+1, errEmptyInput)
		}
		creds = append(creds, cred)
	}
	return creds, nil
}
