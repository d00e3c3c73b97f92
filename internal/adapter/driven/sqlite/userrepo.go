package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/loginform/internal/domain/model"
	"github.com/ericfisherdev/loginform/internal/domain/port/driven"
	"github.com/ericfisherdev/loginform/internal/sqlhelper"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// LoginProcedure is the catalogued procedure performing the credential count.
const LoginProcedure = "usp_user_login"

const countMatchingQuery = `SELECT COUNT(*) FROM T_login WHERE username = ? AND password = ?`

// UserRepo is the SQLite implementation of the UserStore port.
type UserRepo struct {
	h *sqlhelper.Helper
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(h *sqlhelper.Helper) *UserRepo {
	return &UserRepo{h: h}
}

// CountMatching counts rows whose username and password equal the credential's.
// Both values are bound as parameters and never spliced into the SQL text.
func (r *UserRepo) CountMatching(ctx context.Context, cred model.Credential) (int, error) {
	n, err := r.h.ExecScalarInt(ctx, countMatchingQuery, cred.Username, cred.Password)
	if err != nil {
		return 0, fmt.Errorf("count matching credentials: %w", err)
	}
	return int(n), nil
}

// CountMatchingProc performs the same check through the catalogued login procedure.
func (r *UserRepo) CountMatchingProc(ctx context.Context, cred model.Credential) (int, error) {
	n, err := r.h.ExecProcScalarInt(ctx, LoginProcedure, cred.Username, cred.Password)
	if err != nil {
		return 0, fmt.Errorf("count matching credentials via %s: %w", LoginProcedure, err)
	}
	return int(n), nil
}

// Add inserts a credential row.
func (r *UserRepo) Add(ctx context.Context, cred model.Credential) error {
	return r.insert(ctx, cred)
}

// Import inserts all credentials inside one transaction.
func (r *UserRepo) Import(ctx context.Context, creds []model.Credential) error {
	err := r.h.WithTx(ctx, func(ctx context.Context) error {
		for _, cred := range creds {
			if err := r.insert(ctx, cred); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import %d users: %w", len(creds), err)
	}
	return nil
}

func (r *UserRepo) insert(ctx context.Context, cred model.Credential) error {
	const query = `INSERT INTO T_login (username, password) VALUES (?, ?)`
	_, err := r.h.ExecNonQuery(ctx, query, cred.Username, cred.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add user %q: %w", cred.Username, driven.ErrUserExists)
		}
		return fmt.Errorf("add user %q: %w", cred.Username, err)
	}
	return nil
}

// Remove deletes the row for username.
func (r *UserRepo) Remove(ctx context.Context, username string) error {
	const query = `DELETE FROM T_login WHERE username = ?`
	n, err := r.h.ExecNonQuery(ctx, query, username)
	if err != nil {
		return fmt.Errorf("remove user %q: %w", username, err)
	}
	if n == 0 {
		return fmt.Errorf("remove user %q: %w", username, driven.ErrUserNotFound)
	}
	return nil
}

// List returns every stored credential ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const query = `SELECT id, username, password, created_at FROM T_login ORDER BY username`
	tbl, err := r.h.ExecTable(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]model.User, 0, tbl.Len())
	for i := range tbl.Rows {
		u, err := userFromRow(tbl, i)
		if err != nil {
			return nil, fmt.Errorf("list users: row %d: %w", i, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func userFromRow(tbl *sqlhelper.Table, i int) (model.User, error) {
	var u model.User

	id, err := tbl.Value(i, "id")
	if err != nil {
		return u, err
	}
	if u.ID, err = sqlhelper.ToInt64(id); err != nil {
		return u, fmt.Errorf("id: %w", err)
	}
	if u.Username, err = tbl.String(i, "username"); err != nil {
		return u, err
	}
	if u.Password, err = tbl.String(i, "password"); err != nil {
		return u, err
	}

	created, err := tbl.Value(i, "created_at")
	if err != nil {
		return u, err
	}
	switch v := created.(type) {
	case time.Time:
		u.CreatedAt = v
	case string:
		if u.CreatedAt, err = parseTime(v); err != nil {
			return u, fmt.Errorf("created_at: %w", err)
		}
	case []byte:
		if u.CreatedAt, err = parseTime(string(v)); err != nil {
			return u, fmt.Errorf("created_at: %w", err)
		}
	}
	return u, nil
}

// isUniqueViolation matches the constraint error text shared by both SQLite drivers.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
