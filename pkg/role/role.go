package role

import "errors"

type Role string

const (
	SuperAdmin Role = "superadmin"
	SubAdmin   Role = "subadmin"
	User       Role = "user"
)

var ErrForbidden = errors.New("role: operation is not allowed for this role")

// Allowed reports whether r is one of the accepted roles. There is no
// hierarchy: a superadmin passes only where superadmin is listed.
func Allowed(r Role, accepted ...Role) bool {
	for _, a := range accepted {
		if r == a {
			return true
		}
	}
	return false
}

func Valid(r Role) bool {
	return r == SuperAdmin || r == SubAdmin || r == User
}
