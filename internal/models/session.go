package models

// User is the authenticated-user payload returned by the auth endpoints. The
// backend shapes it as a record row, so display fields come through DataItems.
type User map[string]DataItem

// DisplayName returns the best available display field for the user.
func (u User) DisplayName() string {
	for _, code := range []string{"name", "full_name", "username", "email"} {
		if item, ok := u[code]; ok {
			if s := item.Display(); s != "" {
				return s
			}
		}
	}
	return ""
}

// Session is the locally persisted credential record: the bearer token plus
// the user display fields. Nothing else is cached client-side.
type Session struct {
	Token string `json:"token" yaml:"token"`
	User  User   `json:"user" yaml:"user"`
}

// Valid reports whether the session carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
