// Package viewmodel defines presentation-ready structs for templ components.
package viewmodel

// MessageKind selects the styling of a message box.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
	MessageWarning MessageKind = "warning"
)

// MessageViewModel is the modal message shown after a submit.
type MessageViewModel struct {
	Text string
	Kind MessageKind
}

// LoginPageViewModel holds everything the login page renders. Password is
// absent: the form never echoes it back.
type LoginPageViewModel struct {
	Title      string
	BannerHTML string // already sanitized
	Username   string
	CSRFToken  string
	Message    *MessageViewModel
	// FocusPassword moves autofocus to the password field.
	FocusPassword bool
}
