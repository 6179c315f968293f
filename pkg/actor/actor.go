package actor

import "noticeboard/pkg/role"

type Actor struct {
	Id          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	Role        role.Role `json:"role"`

	// Faculty binds a subadmin's authoring scope. Empty for the
	// superadmin, optional for everyone else.
	Faculty string `json:"faculty,omitempty"`

	Password []byte `json:"-"`
}

// PublicName is how the actor appears as a post author.
func (a *Actor) PublicName() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}
