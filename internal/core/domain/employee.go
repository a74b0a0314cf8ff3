package domain

import (
	"strings"
	"time"
)

// DefaultGroup is the permission group every employee created through the API joins.
const DefaultGroup = "Employees"

// Employee models an authenticated actor in the system.
type Employee struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	PhoneNumber  string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Salary       *float64  `json:"salary,omitempty" bson:"salary,omitempty"`
	Role         Role      `json:"role" bson:"role"`
	ManagerID    string    `json:"manager_id,omitempty" bson:"manager_id,omitempty"`
	JobID        string    `json:"job_id,omitempty" bson:"job_id,omitempty"`
	DepartmentID string    `json:"department_id,omitempty" bson:"department_id,omitempty"`
	DeviceToken  string    `json:"-" bson:"device_token,omitempty"`
	ProfilePhoto string    `json:"profile_photo,omitempty" bson:"profile_photo,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	DateJoined   time.Time `json:"date_joined" bson:"date_joined"`
}

// NormalizeEmail lower-cases and trims an address before lookups and writes.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Actor projects the employee onto the value the policy engine works with.
func (e *Employee) Actor() Actor {
	return Actor{ID: e.ID, Role: e.Role, DepartmentID: e.DepartmentID, ManagerID: e.ManagerID}
}

// AssignManager sets m as the employee's manager and inherits its department.
func (e *Employee) AssignManager(m *Employee) error {
	if m == nil {
		e.ManagerID = ""
		return nil
	}
	if !m.Role.CanManage() {
		return ErrInvalidManager
	}
	e.ManagerID = m.ID
	e.DepartmentID = m.DepartmentID
	return nil
}

func (e *Employee) RecordID() string { return e.ID }

func (e *Employee) AttrValues(attr Attr) []string {
	switch attr {
	case AttrID:
		return nonEmpty(e.ID)
	case AttrDepartment:
		return nonEmpty(e.DepartmentID)
	case AttrManager:
		return nonEmpty(e.ManagerID)
	case AttrRole:
		return nonEmpty(string(e.Role))
	}
	return nil
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
