package role

import "fmt"

// Role is a tenant-scoped role name with a total order.
// Higher roles include every capability of the roles below them.
type Role string

const (
	Viewer  Role = "viewer"
	Member  Role = "member"
	Manager Role = "manager"
	Admin   Role = "admin"
	Owner   Role = "owner"
)

// levels maps each known role to its position in the total order.
// The zero value (unknown role) maps to 0, which is below Viewer.
var levels = map[Role]int{
	Viewer:  1,
	Member:  2,
	Manager: 3,
	Admin:   4,
	Owner:   5,
}

// Roles returns all known roles ordered from lowest to highest.
func Roles() []Role {
	return []Role{Viewer, Member, Manager, Admin, Owner}
}

// Parse converts a string into a Role.
// Returns ErrUnknownRole for anything outside the known set.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := levels[r]
	return ok
}

// Level returns the role's position in the total order.
// Unknown roles return 0, which compares below every valid role.
func (r Role) Level() int {
	return levels[r]
}

// AtLeast reports whether the role grants at least the capability of min.
// An unknown role is always below min, including an unknown min.
func (r Role) AtLeast(min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return r.Level() >= min.Level()
}

func (r Role) String() string {
	return string(r)
}
