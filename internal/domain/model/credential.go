package model

import "time"

// Credential is the username/password pair submitted by a login form. It is
// built fresh for every submit and compared for exact equality against the
// stored credentials.
type Credential struct {
	Username string
	Password string
}

// User is a stored credential row as listed by maintenance tooling.
type User struct {
	ID        int64
	Username  string
	Password  string
	CreatedAt time.Time
}
