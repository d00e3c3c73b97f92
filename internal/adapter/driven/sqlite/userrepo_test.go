package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/loginform/internal/domain/model"
	"github.com/ericfisherdev/loginform/internal/domain/port/driven"
)

func seedUsers(t *testing.T, repo *UserRepo, creds ...model.Credential) {
	t.Helper()
	for _, c := range creds {
		require.NoError(t, repo.Add(context.Background(), c))
	}
}

func TestUserRepo_CountMatching(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo,
		model.Credential{Username: "admin", Password: "123456"},
		model.Credential{Username: "guest", Password: "guest"},
	)

	tests := []struct {
		name string
		cred model.Credential
		want int
	}{
		{name: "exact match", cred: model.Credential{Username: "admin", Password: "123456"}, want: 1},
		{name: "wrong password", cred: model.Credential{Username: "admin", Password: "654321"}, want: 0},
		{name: "unknown user", cred: model.Credential{Username: "root", Password: "123456"}, want: 0},
		{name: "password of another user", cred: model.Credential{Username: "admin", Password: "guest"}, want: 0},
		{name: "case differs", cred: model.Credential{Username: "Admin", Password: "123456"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.CountMatching(ctx, tt.cred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepo_CountMatching_InjectionPayloads(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo, model.Credential{Username: "admin", Password: "123456"})

	payloads := []model.Credential{
		{Username: "admin", Password: "' OR '1'='1"},
		{Username: "' OR '1'='1' --", Password: "x"},
		{Username: "admin' --", Password: ""},
		{Username: "admin", Password: "x' OR 1=1; DROP TABLE T_login; --"},
	}

	for _, p := range payloads {
		got, err := repo.CountMatching(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 0, got, "payload %+v must not match", p)

		got, err = repo.CountMatchingProc(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 0, got, "payload %+v must not match via procedure", p)
	}

	// The table survived every payload.
	got, err := repo.CountMatching(ctx, model.Credential{Username: "admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestUserRepo_CountMatchingProc(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo, model.Credential{Username: "admin", Password: "123456"})

	got, err := repo.CountMatchingProc(ctx, model.Credential{Username: "admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = repo.CountMatchingProc(ctx, model.Credential{Username: "admin", Password: "nope"})
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestUserRepo_AddDuplicate(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	seedUsers(t, repo, model.Credential{Username: "admin", Password: "a"})

	err := repo.Add(context.Background(), model.Credential{Username: "admin", Password: "b"})
	assert.ErrorIs(t, err, driven.ErrUserExists)
}

func TestUserRepo_Import(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()

	err := repo.Import(ctx, []model.Credential{
		{Username: "alice", Password: "a"},
		{Username: "bob", Password: "b"},
	})
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.False(t, users[0].CreatedAt.IsZero())
}

func TestUserRepo_ImportIsAllOrNothing(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()

	err := repo.Import(ctx, []model.Credential{
		{Username: "alice", Password: "a"},
		{Username: "bob", Password: "b"},
		{Username: "alice", Password: "again"},
	})
	require.ErrorIs(t, err, driven.ErrUserExists)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepo_Remove(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()
	seedUsers(t, repo, model.Credential{Username: "admin", Password: "123456"})

	require.NoError(t, repo.Remove(ctx, "admin"))

	got, err := repo.CountMatching(ctx, model.Credential{Username: "admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestUserRepo_RemoveMissing(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))

	err := repo.Remove(context.Background(), "ghost")
	assert.ErrorIs(t, err, driven.ErrUserNotFound)
}

func TestUserRepo_ListEmpty(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2026-03-01T10:20:30Z"},
		{in: "2026-03-01 10:20:30"},
		{in: "2026-03-01 10:20:30.123"},
		{in: "2026-03-01T10:20:30+02:00"},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2026, got.Year())
		})
	}
}
