// Package rbac implements the three-level role hierarchy, the authenticated
// principal of a console session and the authorization predicate every
// privileged operation checks.
//
// Roles are totally ordered, so authorization is a single ordinal
// comparison: a principal satisfies a requirement when its role ranks at or
// above the required one. Anything unauthenticated or with an unrecognized
// role is denied.
package rbac

import "strings"

// Role is a privilege level. Higher ordinals carry more privilege.
type Role int

const (
	// RoleUnknown marks a role name that did not parse. It never satisfies
	// any requirement.
	RoleUnknown Role = -1

	ServiceEngineer Role = 0
	SystemAdmin     Role = 1
	SuperAdmin      Role = 2
)

var roleNames = map[Role]string{
	ServiceEngineer: "service_engineer",
	SystemAdmin:     "system_admin",
	SuperAdmin:      "super_admin",
}

// ParseRole maps a stored role name to its Role, ignoring case and
// surrounding whitespace. Unrecognized names yield RoleUnknown and false.
func ParseRole(name string) (Role, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for r, s := range roleNames {
		if s == n {
			return r, true
		}
	}
	return RoleUnknown, false
}

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// String returns the persisted name of the role.
func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "unknown"
}

// Satisfies reports whether r meets required. Invalid roles on either side
// never satisfy.
func (r Role) Satisfies(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r >= required
}
