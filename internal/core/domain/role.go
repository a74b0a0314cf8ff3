package domain

// Role is the system category of an employee. It drives every policy decision.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// Roles lists every role from the most to the least privileged.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage other employees and write projects.
func (r Role) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleManager
}

// Rank orders roles by privilege; SuperAdmin ranks 0. Unknown roles rank last.
func (r Role) Rank() int {
	for i, known := range Roles {
		if r == known {
			return i
		}
	}
	return len(Roles)
}

// CanManage reports whether an employee with this role may be set as somebody's manager.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// Actor is the authenticated employee on whose behalf an operation runs.
type Actor struct {
	ID           string
	Role         Role
	DepartmentID string
	ManagerID    string
}

// IsSuperAdmin is a shorthand used throughout the policy code.
func (a Actor) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }
