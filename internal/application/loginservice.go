// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/loginform/internal/domain/model"
	"github.com/ericfisherdev/loginform/internal/domain/port/driven"
)

// LoginService validates submitted credentials and checks them against the
// UserStore. It depends only on port interfaces.
type LoginService struct {
	users   driven.UserStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewLoginService creates a LoginService. A zero timeout leaves the caller's
// context deadline untouched.
func NewLoginService(users driven.UserStore, timeout time.Duration, logger *slog.Logger) *LoginService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{
		users:   users,
		timeout: timeout,
		logger:  logger,
	}
}

// Login forwards the credential to the store and returns the number of
// matching rows.
func (s *LoginService) Login(ctx context.Context, cred model.Credential) (int, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.users.CountMatching(ctx, cred)
}

// Attempt handles one form submission. Both fields are trimmed; an empty
// username or password is reported without touching the store. Otherwise a
// positive match count is a successful login.
func (s *LoginService) Attempt(ctx context.Context, username, password string) (model.Outcome, error) {
	cred := model.Credential{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}

	if cred.Username == "" {
		return model.OutcomeUsernameRequired, nil
	}
	if cred.Password == "" {
		return model.OutcomePasswordRequired, nil
	}

	count, err := s.Login(ctx, cred)
	if err != nil {
		s.logger.Error("login check failed", "username", cred.Username, "error", err)
		return "", fmt.Errorf("login %q: %w", cred.Username, err)
	}

	outcome := model.OutcomeInvalidCredentials
	if count > 0 {
		outcome = model.OutcomeSucceeded
	}
	s.logger.Info("login attempt", "username", cred.Username, "outcome", string(outcome))
	return outcome, nil
}
