// Package tui implements the terminal login form driving adapter using
// bubbletea and lipgloss.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/loginform/internal/domain/model"
)

// submitTimeout bounds one submission, including the store round trip.
const submitTimeout = 30 * time.Second

// Authenticator checks one form submission. application.LoginService
// satisfies it.
type Authenticator interface {
	Attempt(ctx context.Context, username, password string) (model.Outcome, error)
}

type focus int

const (
	focusUsername focus = iota
	focusPassword
	focusButton
	focusCount
)

// attemptMsg carries the result of an asynchronous submission.
type attemptMsg struct {
	outcome model.Outcome
	err     error
}

// message is the modal box shown after a submission.
type message struct {
	outcome model.Outcome
	err     error
}

func (m message) text() string {
	if m.err != nil {
		return "Login failed: the credential store is unavailable."
	}
	return m.outcome.Message()
}

// Model is the bubbletea model of the login form.
type Model struct {
	auth     Authenticator
	username field
	password field
	focus    focus
	busy     bool
	message  *message
	width    int
}

// New creates a form with the username field focused.
func New(auth Authenticator) Model {
	return Model{
		auth:     auth,
		password: field{masked: true},
	}
}

// Username returns the current content of the username field.
func (m Model) Username() string { return m.username.String() }

// Password returns the current content of the password field.
func (m Model) Password() string { return m.password.String() }

// Busy reports whether a submission is in flight.
func (m Model) Busy() bool { return m.busy }

// Message returns the text of the open message box, or "" when none is open.
func (m Model) Message() string {
	if m.message == nil {
		return ""
	}
	return m.message.text()
}

// Outcome returns the outcome behind the open message box.
func (m Model) Outcome() model.Outcome {
	if m.message == nil {
		return ""
	}
	return m.message.outcome
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case attemptMsg:
		m.busy = false
		m.message = &message{outcome: msg.outcome, err: msg.err}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	if m.message != nil {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.dismiss()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % focusCount
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + focusCount - 1) % focusCount
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyBackspace:
		if f := m.focused(); f != nil {
			f.backspace()
		}
	case tea.KeyCtrlU:
		if f := m.focused(); f != nil {
			f.clear()
		}
	case tea.KeySpace:
		if f := m.focused(); f != nil {
			f.insert([]rune{' '})
		}
	case tea.KeyRunes:
		if f := m.focused(); f != nil {
			f.insert(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) focused() *field {
	switch m.focus {
	case focusUsername:
		return &m.username
	case focusPassword:
		return &m.password
	default:
		return nil
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.busy = true
	auth := m.auth
	username, password := m.username.String(), m.password.String()
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		outcome, err := auth.Attempt(ctx, username, password)
		return attemptMsg{outcome: outcome, err: err}
	}
}

// dismiss closes the message box and moves focus to the field that needs
// attention. A rejected password is cleared.
func (m *Model) dismiss() {
	outcome := m.message.outcome
	m.message = nil
	switch outcome {
	case model.OutcomeUsernameRequired:
		m.focus = focusUsername
	case model.OutcomePasswordRequired:
		m.focus = focusPassword
	case model.OutcomeInvalidCredentials:
		m.password.clear()
		m.focus = focusPassword
	}
}
