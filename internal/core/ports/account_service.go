package ports

import (
	"context"
	"time"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// EmployeeInput carries the fields of a new or edited employee. Nil pointers
// are fields the caller did not send.
type EmployeeInput struct {
	Email        *string
	Password     *string
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	Role         *domain.Role
	ProfilePhoto *string
	DepartmentID *string
	ManagerID    *string
	JobID        *string
	Salary       *float64
	Groups       []string
	IsActive     *bool
}

// PersonSummary is the short form of a related employee.
type PersonSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ActorSummary is what a client learns about itself at login.
type ActorSummary struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	FullName     string         `json:"full_name"`
	Role         domain.Role    `json:"role"`
	DepartmentID string         `json:"department_id,omitempty"`
	Department   string         `json:"department,omitempty"`
	Manager      *PersonSummary `json:"manager,omitempty"`
	Groups       []string       `json:"groups"`
}

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Actor     ActorSummary `json:"user"`
}

// ContactInput is a message an employee sends to the support address.
type ContactInput struct {
	Subject string
	Message string
}

// AccountService covers the account lifecycle.
type AccountService interface {
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)
	CreateEmployee(ctx context.Context, actor domain.Actor, in EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, actor domain.Actor, id string, in EmployeeInput) (*domain.Employee, error)
	ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error
	RequestReset(ctx context.Context, email string) error
	ResetTokenValid(ctx context.Context, token string) error
	ConsumeReset(ctx context.Context, token, newPassword, confirm string) error
	SetDeviceToken(ctx context.Context, actor domain.Actor, token string) error
	SendContact(ctx context.Context, actor domain.Actor, in ContactInput) error
	CreateSuperuser(ctx context.Context, email, password string) (*domain.Employee, error)
}
