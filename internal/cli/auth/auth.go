package auth

// User is the authenticated platform user as known to this client.
// The login response carries id and name; the email is the one the
// user logged in with (the backend does not echo it back).
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the current login state. IsAuthenticated is true exactly
// when both User and Credential are present; Valid enforces that when
// a persisted record is read back.
type Session struct {
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Credential      string `json:"credential"`
}

// Empty returns the logged-out session
func Empty() Session {
	return Session{}
}

// Valid reports whether the session is structurally consistent
func (s Session) Valid() bool {
	if s.IsAuthenticated {
		return s.User != nil && s.Credential != ""
	}
	return s.User == nil && s.Credential == ""
}
