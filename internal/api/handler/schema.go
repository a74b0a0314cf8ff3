package handler

import (
	"time"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Account ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type recoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// resetPasswordRequest carries no validation tags: empty and mismatching
// passwords are reported by the account service in a fixed order.
type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type deviceTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

type contactRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// --- Employees ---

// employeeRequest is used for create and partial update. Absent fields stay nil.
type employeeRequest struct {
	Email        *string      `json:"email"         validate:"omitempty,email"`
	Password     *string      `json:"password"`
	FirstName    *string      `json:"first_name"`
	LastName     *string      `json:"last_name"`
	PhoneNumber  *string      `json:"phone_number"`
	Role         *domain.Role `json:"role"          validate:"omitempty,oneof=super_admin admin manager employee"`
	ProfilePhoto *string      `json:"profile_photo"`
	DepartmentID *string      `json:"department_id"`
	ManagerID    *string      `json:"manager_id"`
	JobID        *string      `json:"job_id"`
	Salary       *float64     `json:"salary"        validate:"omitempty,gte=0"`
	Groups       []string     `json:"groups"`
	IsActive     *bool        `json:"is_active"`
}

// --- Projects & tasks ---

type projectRequest struct {
	Title        *string               `json:"title"`
	Status       *domain.ProjectStatus `json:"status"        validate:"omitempty,oneof=in_progress late finished suspended canceled"`
	Detail       *string               `json:"detail"`
	File         *string               `json:"file"`
	ClientID     *string               `json:"client_id"`
	DepartmentID *string               `json:"department_id"`
	Team         *[]string             `json:"team"`
	StartDate    *time.Time            `json:"start_date"`
	EndDate      *time.Time            `json:"end_date"`
}

type taskRequest struct {
	ProjectID    *string            `json:"project_id"`
	EmployeeID   *string            `json:"employee_id"`
	Title        *string            `json:"title"`
	Detail       *string            `json:"detail"`
	File         *string            `json:"file"`
	Priority     *string            `json:"priority"      validate:"omitempty,oneof=urgent high normal low"`
	DueDate      *time.Time         `json:"due_date"`
	Status       *domain.TaskStatus `json:"status"        validate:"omitempty,oneof=created in_progress on_hold completed canceled"`
	WorkingHours *float64           `json:"working_hours" validate:"omitempty,gte=0,lt=100"`
}

// taskResponse renders the priority by name.
type taskResponse struct {
	ID           string            `json:"id"`
	ProjectID    string            `json:"project_id"`
	EmployeeID   string            `json:"employee_id"`
	Title        string            `json:"title"`
	Detail       string            `json:"detail,omitempty"`
	File         string            `json:"file,omitempty"`
	Priority     string            `json:"priority"`
	DueDate      time.Time         `json:"due_date"`
	Status       domain.TaskStatus `json:"status"`
	WorkingHours *float64          `json:"working_hours,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}
