// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/loginform/internal/domain/model"
)

// ErrUserExists is returned by UserStore.Add when the username is taken.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned by UserStore.Remove when no row matches.
var ErrUserNotFound = errors.New("user not found")

// UserStore defines the driven port for the credentials table.
type UserStore interface {
	// CountMatching returns the number of stored rows whose username and
	// password both equal the credential's. Zero means no match.
	CountMatching(ctx context.Context, cred model.Credential) (int, error)

	// Add inserts a credential. Returns ErrUserExists if the username is taken.
	Add(ctx context.Context, cred model.Credential) error

	// Import inserts all credentials in one transaction. Either every row is
	// written or none is.
	Import(ctx context.Context, creds []model.Credential) error

	// Remove deletes the credential with the given username.
	// Returns ErrUserNotFound if there is none.
	Remove(ctx context.Context, username string) error

	// List returns all stored credentials ordered by username.
	List(ctx context.Context) ([]model.User, error)
}
