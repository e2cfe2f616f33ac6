package domain

// Session is the startup state of the application: who is using it and how.
type Session struct {
	Token   string    `json:"-"`
	User    *User     `json:"user"`
	Prefs   UserPrefs `json:"prefs"`
	BaseURL string    `json:"base_url"`
}

// LoggedIn reports whether a bearer token is present.
// Without one the application runs in local-only mode.
func (s *Session) LoggedIn() bool {
	return s.Token != ""
}
