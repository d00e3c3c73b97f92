package model

// Outcome is the result of a login attempt as shown to the user.
type Outcome string

const (
	OutcomeUsernameRequired   Outcome = "username_required"
	OutcomePasswordRequired   Outcome = "password_required"
	OutcomeSucceeded          Outcome = "succeeded"
	OutcomeInvalidCredentials Outcome = "invalid_credentials"
)

// Message returns the fixed text displayed for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeUsernameRequired:
		return "Please enter a username."
	case OutcomePasswordRequired:
		return "Please enter a password."
	case OutcomeSucceeded:
		return "Login succeeded."
	case OutcomeInvalidCredentials:
		return "Invalid username or password."
	default:
		return ""
	}
}

// Succeeded reports whether the outcome is a successful login.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSucceeded
}

// IsValidation reports whether the outcome was decided without querying the store.
func (o Outcome) IsValidation() bool {
	return o == OutcomeUsernameRequired || o == OutcomePasswordRequired
}
