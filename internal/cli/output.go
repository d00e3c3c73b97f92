package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Result is the machine-readable outcome of one command.
type Result struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func printJSONResult(w io.Writer, title string, details []string, err error) error {
	result := Result{OK: err == nil, Title: title, Details: details}
	if err != nil {
		result.Error = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printTextResult writes a status line and the details. The error itself is
// printed by cobra.
func printTextResult(w io.Writer, title string, details []string, err error) {
	status := okStyle.Render("OK")
	if err != nil {
		status = failStyle.Render("FAILED")
	}
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(title), status)
	for _, d := range details {
		fmt.Fprintf(w, "- %s\n", d)
	}
}
