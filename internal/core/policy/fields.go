package policy

import (
	"math/bits"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// Field is one writable attribute of a record.
type Field uint64

const (
	FieldEmail Field = 1 << iota
	FieldPassword
	FieldFirstName
	FieldLastName
	FieldPhoneNumber
	FieldRole
	FieldProfilePhoto
	FieldDepartment
	FieldManager
	FieldJob
	FieldSalary
	FieldGroups
	FieldIsActive
	FieldTitle
	FieldStatus
	FieldDetail
	FieldFile
	FieldClient
	FieldTeam
	FieldStartDate
	FieldEndDate
	FieldProject
	FieldEmployee
	FieldPriority
	FieldDueDate
	FieldWorkingHours
	FieldName
	FieldMinSalary
	FieldMaxSalary

	fieldCount = iota
)

var fieldNames = [fieldCount]string{
	"email", "password", "first_name", "last_name", "phone_number", "role",
	"profile_photo", "department", "manager", "job", "salary", "groups",
	"is_active", "title", "status", "detail", "file", "client", "team",
	"start_date", "end_date", "project", "employee", "priority", "due_date",
	"working_hours", "name", "min_salary", "max_salary",
}

func (f Field) String() string {
	if f == 0 || f&(f-1) != 0 {
		return "fields"
	}
	return fieldNames[bits.TrailingZeros64(uint64(f))]
}

// FieldSet is an immutable set of fields.
type FieldSet uint64

// Fields builds a set.
func Fields(fs ...Field) FieldSet {
	var s FieldSet
	for _, f := range fs {
		s |= FieldSet(f)
	}
	return s
}

// Has reports whether every given field is in the set.
func (s FieldSet) Has(fs ...Field) bool {
	want := Fields(fs...)
	return s&want == want
}

// Without returns the set minus the given fields.
func (s FieldSet) Without(fs ...Field) FieldSet { return s &^ Fields(fs...) }

// Union returns the fields present in either set.
func (s FieldSet) Union(o FieldSet) FieldSet { return s | o }

// Missing returns the members of want that are not in s.
func (s FieldSet) Missing(want FieldSet) FieldSet { return want &^ s }

// Empty reports whether the set has no fields.
func (s FieldSet) Empty() bool { return s == 0 }

// Names lists the field names in declaration order.
func (s FieldSet) Names() []string {
	names := make([]string, 0, bits.OnesCount64(uint64(s)))
	for i := 0; i < fieldCount; i++ {
		if s&(1<<i) != 0 {
			names = append(names, fieldNames[i])
		}
	}
	return names
}

var (
	personalFields   = Fields(FieldFirstName, FieldLastName, FieldPhoneNumber, FieldRole, FieldProfilePhoto)
	employmentFields = Fields(FieldDepartment, FieldManager, FieldJob, FieldSalary)
	accountFields    = Fields(FieldEmail, FieldPassword)

	allEmployeeFields = accountFields | personalFields | employmentFields | Fields(FieldGroups, FieldIsActive)
	selfProfileFields = Fields(FieldEmail, FieldFirstName, FieldLastName, FieldPhoneNumber, FieldProfilePhoto)

	allProjectFields = Fields(FieldTitle, FieldStatus, FieldDetail, FieldFile, FieldClient,
		FieldDepartment, FieldTeam, FieldStartDate, FieldEndDate)
	allTaskFields = Fields(FieldProject, FieldEmployee, FieldTitle, FieldDetail, FieldFile,
		FieldPriority, FieldDueDate, FieldStatus, FieldWorkingHours)
	allJobFields = Fields(FieldTitle, FieldDepartment, FieldMinSalary, FieldMaxSalary)
)

// EditableFields returns the fields the actor may set on a record of kind,
// either while creating one (isCreate) or while editing an existing one.
// Fields outside the set are read-only for the actor or assigned by policy.
func EditableFields(actor domain.Actor, kind domain.Kind, isCreate bool) FieldSet {
	switch kind {
	case domain.KindEmployee:
		return employeeFields(actor.Role, isCreate)
	case domain.KindProject:
		switch actor.Role {
		case domain.RoleSuperAdmin:
			return allProjectFields
		case domain.RoleAdmin, domain.RoleManager:
			return allProjectFields.Without(FieldDepartment)
		}
	case domain.KindTask:
		switch actor.Role {
		case domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleManager:
			return allTaskFields
		case domain.RoleEmployee:
			return allTaskFields.Without(FieldEmployee)
		}
	case domain.KindJob:
		switch actor.Role {
		case domain.RoleSuperAdmin:
			return allJobFields
		case domain.RoleAdmin:
			return allJobFields.Without(FieldDepartment)
		}
	case domain.KindDepartment:
		if actor.IsSuperAdmin() {
			return Fields(FieldTitle)
		}
	case domain.KindClient:
		if actor.IsSuperAdmin() {
			return Fields(FieldName, FieldEmail)
		}
	}
	return 0
}

func employeeFields(role domain.Role, isCreate bool) FieldSet {
	switch role {
	case domain.RoleSuperAdmin:
		return allEmployeeFields
	case domain.RoleAdmin:
		if isCreate {
			return allEmployeeFields.Without(FieldIsActive)
		}
		return allEmployeeFields
	case domain.RoleManager:
		if isCreate {
			return accountFields | personalFields | Fields(FieldJob, FieldSalary)
		}
		return allEmployeeFields.Without(FieldManager, FieldDepartment, FieldGroups)
	case domain.RoleEmployee:
		if isCreate {
			return 0
		}
		return selfProfileFields
	}
	return 0
}

// AssignableRoles lists the roles the actor may give to an employee.
func AssignableRoles(actor domain.Actor) []domain.Role {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return append([]domain.Role(nil), domain.Roles...)
	case domain.RoleAdmin:
		return []domain.Role{domain.RoleManager, domain.RoleEmployee}
	case domain.RoleManager:
		return []domain.Role{domain.RoleEmployee}
	}
	return nil
}

// CanAssignRole reports whether role is among AssignableRoles(actor).
func CanAssignRole(actor domain.Actor, role domain.Role) bool {
	for _, r := range AssignableRoles(actor) {
		if r == role {
			return true
		}
	}
	return false
}
