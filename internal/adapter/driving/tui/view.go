package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/loginform/internal/domain/model"
)

const fieldWidth = 28

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Width(10)

	inputStyle = lipgloss.NewStyle().
			Width(fieldWidth).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	focusedInputStyle = inputStyle.BorderForeground(lipgloss.Color("63"))

	buttonStyle        = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("250"))
	focusedButtonStyle = buttonStyle.Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3)
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	if m.message != nil {
		return m.viewMessage()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.viewField("Username", m.username, m.focus == focusUsername))
	b.WriteString("\n")
	b.WriteString(m.viewField("Password", m.password, m.focus == focusPassword))
	b.WriteString("\n\n")

	button := buttonStyle
	if m.focus == focusButton {
		button = focusedButtonStyle
	}
	b.WriteString(labelStyle.Render(""))
	b.WriteString(button.Render("[ Login ]"))
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(hintStyle.Render("Checking credentials..."))
	} else {
		b.WriteString(hintStyle.Render("tab/shift+tab: move • enter: login • ctrl+c: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewField(label string, f field, focused bool) string {
	style := inputStyle
	text := f.display()
	if focused {
		style = focusedInputStyle
		text += "█"
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, labelStyle.Render(label), style.Render(text))
}

func (m Model) viewMessage() string {
	color := errorColor
	switch {
	case m.message.err != nil:
	case m.message.outcome.Succeeded():
		color = successColor
	case m.message.outcome.IsValidation():
		color = warningColor
	}

	box := boxStyle.BorderForeground(color).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(messageTitle(m.message)),
			"",
			m.message.text(),
			"",
			hintStyle.Render("enter/esc: close"),
		),
	)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box) + "\n"
	}
	return box + "\n"
}

func messageTitle(msg *message) string {
	switch {
	case msg.err != nil:
		return "Error"
	case msg.outcome == model.OutcomeSucceeded:
		return "Welcome"
	case msg.outcome.IsValidation():
		return "Missing input"
	default:
		return "Login failed"
	}
}
