package booking

import "strings"

// Role identifies the permission tier of an account. The string values match
// the codes stored in the permission mapping table.
type Role string

const (
	// RoleNormalEmployee is the default tier for regular staff accounts.
	RoleNormalEmployee Role = "NORMAL_EMPLOYEE"
	// RoleLeader covers team and department leads.
	RoleLeader Role = "LEADER"
	// RoleSystemAdmin grants administrative access to every panel.
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// Roles lists every recognised role in a stable order.
func Roles() []Role {
	return []Role{RoleNormalEmployee, RoleLeader, RoleSystemAdmin}
}

// ParseRole resolves a stored role code to a Role value.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleNormalEmployee:
		return RoleNormalEmployee, true
	case RoleLeader:
		return RoleLeader, true
	case RoleSystemAdmin:
		return RoleSystemAdmin, true
	default:
		return "", false
	}
}

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsAdmin reports whether the role carries system administration rights.
func (r Role) IsAdmin() bool {
	return r == RoleSystemAdmin
}
