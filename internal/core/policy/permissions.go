package policy

import "github.com/empresatop10/employee-manager/internal/core/domain"

// CanCreate reports whether the actor may create records of kind at all.
func CanCreate(actor domain.Actor, kind domain.Kind) bool {
	switch kind {
	case domain.KindEmployee:
		return actor.Role.IsStaff()
	case domain.KindProject:
		return actor.Role.IsStaff()
	case domain.KindTask:
		return actor.Role.Valid()
	case domain.KindJob:
		return actor.Role == domain.RoleSuperAdmin || actor.Role == domain.RoleAdmin
	case domain.KindDepartment, domain.KindClient:
		return actor.IsSuperAdmin()
	}
	return false
}

// CanWriteProject reports whether the actor may edit a project it can see.
// Only staff write projects; everybody else has read-only access.
func CanWriteProject(actor domain.Actor) bool {
	return actor.Role.IsStaff()
}

// CanDeleteProject reports whether the actor may delete projects.
func CanDeleteProject(actor domain.Actor) bool {
	return actor.IsSuperAdmin()
}

// CanUpdateTask reports whether the actor may edit task. The assignee is
// needed to check the management chain.
func CanUpdateTask(actor domain.Actor, task *domain.Task, assignee *domain.Employee) bool {
	if actor.IsSuperAdmin() || task.EmployeeID == actor.ID {
		return true
	}
	return managesAssignee(actor, assignee)
}

// CanDeleteTask reports whether the actor may delete task. Plain employees
// cannot delete tasks, not even their own.
func CanDeleteTask(actor domain.Actor, task *domain.Task, assignee *domain.Employee) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	if actor.Role.IsStaff() && task.EmployeeID == actor.ID {
		return true
	}
	return managesAssignee(actor, assignee)
}

func managesAssignee(actor domain.Actor, assignee *domain.Employee) bool {
	if assignee == nil {
		return false
	}
	if assignee.ManagerID != "" && assignee.ManagerID == actor.ID {
		return true
	}
	return actor.Role == domain.RoleAdmin && actor.DepartmentID != "" &&
		assignee.DepartmentID == actor.DepartmentID
}

// CanEditEmployee reports whether the actor may edit target's record.
// Employees only edit themselves; staff edit whoever their scope shows.
func CanEditEmployee(actor domain.Actor, target *domain.Employee) bool {
	if actor.IsSuperAdmin() || target.ID == actor.ID {
		return true
	}
	if !actor.Role.IsStaff() {
		return false
	}
	if target.Role == domain.RoleSuperAdmin {
		return false
	}
	return VisibleScope(actor, domain.KindEmployee).Match(target)
}

// Defaults holds the values policy assigns when a non-super-admin creates a
// record. Empty strings leave the caller's value in place.
type Defaults struct {
	DepartmentID   string
	ManagerID      string
	EmployeeID     string
	AddActorToTeam bool
}

// CreateDefaults returns the values forced onto a new record of kind.
func CreateDefaults(actor domain.Actor, kind domain.Kind) Defaults {
	if actor.IsSuperAdmin() {
		return Defaults{}
	}
	switch kind {
	case domain.KindEmployee:
		d := Defaults{DepartmentID: actor.DepartmentID}
		if actor.Role == domain.RoleManager {
			d.ManagerID = actor.ID
		}
		return d
	case domain.KindProject:
		return Defaults{DepartmentID: actor.DepartmentID, AddActorToTeam: actor.Role.IsStaff()}
	case domain.KindTask:
		if actor.Role == domain.RoleEmployee {
			return Defaults{EmployeeID: actor.ID}
		}
	case domain.KindJob:
		return Defaults{DepartmentID: actor.DepartmentID}
	}
	return Defaults{}
}
