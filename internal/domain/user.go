package domain

import (
	"strings"
	"time"
)

// User is a local profile for an identity-provider account.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	// SoderberghMode hides star ratings from everything this user views.
	SoderberghMode bool      `json:"soderbergh_mode"`
	CreatedAt      time.Time `json:"created_at"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
