package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the login form until the user quits or ctx is cancelled.
func Run(ctx context.Context, auth Authenticator) error {
	p := tea.NewProgram(New(auth), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running login form: %w", err)
	}
	return nil
}
