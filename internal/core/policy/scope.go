// Package policy decides what an actor may see and change. Every function is
// pure: it builds scopes and field sets from the actor's role, department and
// id, and never touches a store or mutates its arguments.
//
// Rules are checked in role precedence: super admins are unrestricted, admins
// are bounded by their department, managers by themselves and their direct
// reports, and employees by the records assigned to them.
package policy

import "github.com/empresatop10/employee-manager/internal/core/domain"

// VisibleScope returns the records of kind the actor may list or retrieve.
func VisibleScope(actor domain.Actor, kind domain.Kind) domain.Scope {
	if actor.IsSuperAdmin() {
		return domain.All(kind)
	}

	switch kind {
	case domain.KindClient:
		return domain.All(kind)
	case domain.KindDepartment:
		return domain.Where(kind, domain.Eq(domain.AttrID, actor.DepartmentID))
	case domain.KindJob:
		return domain.Where(kind, domain.Eq(domain.AttrDepartment, actor.DepartmentID))
	case domain.KindEmployee:
		return employeeScope(actor)
	case domain.KindProject:
		return projectScope(actor)
	case domain.KindTask:
		return taskScope(actor)
	}
	return domain.None(kind)
}

func employeeScope(actor domain.Actor) domain.Scope {
	kind := domain.KindEmployee
	switch actor.Role {
	case domain.RoleAdmin:
		return domain.Where(kind, domain.Eq(domain.AttrDepartment, actor.DepartmentID))
	case domain.RoleManager:
		return domain.AnyOf(kind,
			domain.Clause{domain.Eq(domain.AttrID, actor.ID)},
			domain.Clause{domain.Eq(domain.AttrManager, actor.ID)},
		)
	case domain.RoleEmployee:
		return domain.Where(kind, domain.Eq(domain.AttrID, actor.ID))
	}
	return domain.None(kind)
}

// projectScope unions team membership with membership of a direct report
// instead of joining the two conditions in one query.
func projectScope(actor domain.Actor) domain.Scope {
	kind := domain.KindProject
	switch actor.Role {
	case domain.RoleAdmin:
		return domain.Where(kind, domain.Eq(domain.AttrDepartment, actor.DepartmentID))
	case domain.RoleManager:
		return domain.AnyOf(kind,
			domain.Clause{domain.Eq(domain.AttrTeam, actor.ID)},
			domain.Clause{reportsOf(domain.AttrTeam, actor)},
		)
	case domain.RoleEmployee:
		return domain.Where(kind, domain.Eq(domain.AttrTeam, actor.ID))
	}
	return domain.None(kind)
}

func taskScope(actor domain.Actor) domain.Scope {
	kind := domain.KindTask
	switch actor.Role {
	case domain.RoleAdmin:
		return domain.Where(kind, domain.InSub(domain.AttrProject, domain.KindProject,
			domain.Eq(domain.AttrDepartment, actor.DepartmentID)))
	case domain.RoleManager:
		return domain.AnyOf(kind,
			domain.Clause{domain.Eq(domain.AttrEmployee, actor.ID)},
			domain.Clause{reportsOf(domain.AttrEmployee, actor)},
		)
	case domain.RoleEmployee:
		return domain.Where(kind, domain.Eq(domain.AttrEmployee, actor.ID))
	}
	return domain.None(kind)
}

// reportsOf matches records whose attr holds one of the actor's direct reports.
func reportsOf(attr domain.Attr, actor domain.Actor) domain.Criterion {
	if actor.ID == "" {
		return domain.In(attr)
	}
	return domain.InSub(attr, domain.KindEmployee, domain.Eq(domain.AttrManager, actor.ID))
}

// ReferenceScope returns the records the actor may pick as the value of a
// relation field while creating or editing a record of kind.
func ReferenceScope(actor domain.Actor, kind domain.Kind, field Field) domain.Scope {
	switch {
	case kind == domain.KindEmployee && field == FieldManager:
		return managerChoices(actor)
	case kind == domain.KindEmployee && field == FieldDepartment:
		if actor.IsSuperAdmin() {
			return domain.All(domain.KindDepartment)
		}
		return domain.Where(domain.KindDepartment, domain.Eq(domain.AttrID, actor.DepartmentID))
	case kind == domain.KindEmployee && field == FieldJob:
		if actor.IsSuperAdmin() {
			return domain.All(domain.KindJob)
		}
		return domain.Where(domain.KindJob, domain.Eq(domain.AttrDepartment, actor.DepartmentID))
	case kind == domain.KindTask && field == FieldEmployee:
		return assigneeChoices(actor)
	case kind == domain.KindTask && field == FieldProject:
		return VisibleScope(actor, domain.KindProject)
	case kind == domain.KindProject && field == FieldTeam:
		if actor.IsSuperAdmin() {
			return domain.All(domain.KindEmployee)
		}
		return domain.Where(domain.KindEmployee, domain.Eq(domain.AttrDepartment, actor.DepartmentID))
	case kind == domain.KindProject && field == FieldClient:
		return domain.All(domain.KindClient)
	}
	return domain.None(domain.KindEmployee)
}

func managerChoices(actor domain.Actor) domain.Scope {
	kind := domain.KindEmployee
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return domain.Where(kind, domain.In(domain.AttrRole, string(domain.RoleAdmin), string(domain.RoleManager)))
	case domain.RoleAdmin:
		return domain.Where(kind,
			domain.Eq(domain.AttrRole, string(domain.RoleManager)),
			domain.Eq(domain.AttrDepartment, actor.DepartmentID),
		)
	case domain.RoleManager:
		return domain.Where(kind, domain.Eq(domain.AttrID, actor.ID))
	}
	return domain.None(kind)
}

func assigneeChoices(actor domain.Actor) domain.Scope {
	kind := domain.KindEmployee
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return domain.All(kind)
	case domain.RoleAdmin:
		return domain.Where(kind, domain.Eq(domain.AttrDepartment, actor.DepartmentID))
	case domain.RoleManager:
		return domain.AnyOf(kind,
			domain.Clause{domain.Eq(domain.AttrID, actor.ID)},
			domain.Clause{domain.Eq(domain.AttrManager, actor.ID)},
		)
	case domain.RoleEmployee:
		return domain.Where(kind, domain.Eq(domain.AttrID, actor.ID))
	}
	return domain.None(kind)
}
