package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/loginform/internal/domain/model"
)

type fakeAuth struct {
	outcome  model.Outcome
	err      error
	calls    int
	username string
	password string
}

func (f *fakeAuth) Attempt(_ context.Context, username, password string) (model.Outcome, error) {
	f.calls++
	f.username = username
	f.password = password
	return f.outcome, f.err
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// submitAndWait presses enter and feeds the command's result back into the
// model, as the bubbletea runtime would.
func submitAndWait(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.Busy())
	m, _ = update(t, m, cmd())
	assert.False(t, m.Busy())
	return m
}

func TestModel_TypingAndFocus(t *testing.T) {
	m := New(&fakeAuth{})
	m = typeText(t, m, "admin")
	m, _ = update(t, m, key(tea.KeyTab))
	m = typeText(t, m, "1234567")
	m, _ = update(t, m, key(tea.KeyBackspace))

	assert.Equal(t, "admin", m.Username())
	assert.Equal(t, "123456", m.Password())

	m, _ = update(t, m, key(tea.KeyShiftTab))
	m = typeText(t, m, "!")
	assert.Equal(t, "admin!", m.Username())
}

func TestModel_FocusWraps(t *testing.T) {
	m := New(&fakeAuth{})
	m, _ = update(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, focusButton, m.focus)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusUsername, m.focus)

	// Typing on the button is ignored.
	m, _ = update(t, m, key(tea.KeyShiftTab))
	m = typeText(t, m, "x")
	assert.Empty(t, m.Username())
	assert.Empty(t, m.Password())
}

func TestModel_PasswordIsMasked(t *testing.T) {
	m := New(&fakeAuth{})
	m, _ = update(t, m, key(tea.KeyTab))
	m = typeText(t, m, "hunter2")

	view := m.View()
	assert.NotContains(t, view, "hunter2")
	assert.Contains(t, view, "•••••••")
	assert.Contains(t, view, "[ Login ]")
}

func TestModel_Submit(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		outcome    model.Outcome
		wantFocus  focus
		wantPasswd string
	}{
		{
			name:      "username required",
			username:  "",
			password:  "123456",
			outcome:   model.OutcomeUsernameRequired,
			wantFocus: focusUsername,
			// Validation failures keep what was typed.
			wantPasswd: "123456",
		},
		{
			name:       "password required",
			username:   "admin",
			outcome:    model.OutcomePasswordRequired,
			wantFocus:  focusPassword,
			wantPasswd: "",
		},
		{
			name:       "invalid credentials clears password",
			username:   "admin",
			password:   "wrong",
			outcome:    model.OutcomeInvalidCredentials,
			wantFocus:  focusPassword,
			wantPasswd: "",
		},
		{
			name:       "success",
			username:   "admin",
			password:   "123456",
			outcome:    model.OutcomeSucceeded,
			wantFocus:  focusPassword,
			wantPasswd: "123456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{outcome: tt.outcome}
			m := New(auth)
			m = typeText(t, m, tt.username)
			m, _ = update(t, m, key(tea.KeyTab))
			m = typeText(t, m, tt.password)

			m = submitAndWait(t, m)

			assert.Equal(t, 1, auth.calls)
			assert.Equal(t, tt.username, auth.username)
			assert.Equal(t, tt.password, auth.password)
			assert.Equal(t, tt.outcome, m.Outcome())
			assert.Equal(t, tt.outcome.Message(), m.Message())
			assert.Contains(t, m.View(), tt.outcome.Message())

			m, _ = update(t, m, key(tea.KeyEnter))
			assert.Empty(t, m.Message())
			assert.Equal(t, tt.wantFocus, m.focus)
			assert.Equal(t, tt.wantPasswd, m.Password())
		})
	}
}

func TestModel_MessageBoxIsModal(t *testing.T) {
	m := New(&fakeAuth{outcome: model.OutcomeInvalidCredentials})
	m = typeText(t, m, "admin")
	m = submitAndWait(t, m)

	m = typeText(t, m, "zzz")
	m, cmd := update(t, m, key(tea.KeyTab))
	assert.Nil(t, cmd)
	assert.Equal(t, "admin", m.Username())
	assert.NotEmpty(t, m.Message())

	m, _ = update(t, m, key(tea.KeyEsc))
	assert.Empty(t, m.Message())
}

func TestModel_KeysIgnoredWhileBusy(t *testing.T) {
	auth := &fakeAuth{outcome: model.OutcomeSucceeded}
	m := New(auth)
	m = typeText(t, m, "admin")
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)

	m, second := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, second)
	m = typeText(t, m, "x")
	assert.Equal(t, "admin", m.Username())
	assert.Contains(t, m.View(), "Checking credentials")
}

func TestModel_StoreError(t *testing.T) {
	m := New(&fakeAuth{err: errors.New("database is locked")})
	m = typeText(t, m, "admin")
	m = submitAndWait(t, m)

	assert.Contains(t, m.Message(), "unavailable")
	assert.NotContains(t, m.View(), "database is locked")
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := New(&fakeAuth{})
	_, cmd := update(t, m, key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestField_InsertLimitsAndFilters(t *testing.T) {
	var f field
	f.insert([]rune("a\tb\x00c"))
	assert.Equal(t, "abc", f.String())

	long := make([]rune, maxFieldLen+10)
	for i := range long {
		long[i] = 'x'
	}
	f.clear()
	f.insert(long)
	assert.Len(t, f.String(), maxFieldLen)
}
