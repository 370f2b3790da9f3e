package users

import "strings"

// User is the account record the backend returns on login and on OAuth token
// exchange. It is persisted under the "user" storage key as JSON, matching
// the record the web client keeps, and is never stored without an
// accompanying access token.
type User struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

// FullName returns the display name, dropping whichever parts are blank.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
