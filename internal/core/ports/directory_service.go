package ports

import (
	"context"
	"time"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// EmployeeFilter narrows an employee listing inside the actor's scope.
type EmployeeFilter struct {
	ManagerID    string
	DepartmentID string
}

// TaskFilter narrows a task listing inside the actor's scope.
type TaskFilter struct {
	ProjectID  string
	EmployeeID string
}

// ProjectInput carries the fields of a new or edited project. Nil pointers
// are fields the caller did not send.
type ProjectInput struct {
	Title        *string
	Status       *domain.ProjectStatus
	Detail       *string
	File         *string
	ClientID     *string
	DepartmentID *string
	Team         *[]string
	StartDate    *time.Time
	EndDate      *time.Time
}

// TaskInput carries the fields of a new or edited task.
type TaskInput struct {
	ProjectID    *string
	EmployeeID   *string
	Title        *string
	Detail       *string
	File         *string
	Priority     *domain.TaskPriority
	DueDate      *time.Time
	Status       *domain.TaskStatus
	WorkingHours *float64
}

// Permissions describes what an actor may do with one kind of record.
type Permissions struct {
	Kind      domain.Kind   `json:"kind"`
	CanCreate bool          `json:"can_create"`
	Fields    []string      `json:"fields"`
	Roles     []domain.Role `json:"assignable_roles,omitempty"`
}

// DirectoryService serves scoped reads and the project and task writes.
// Records outside the actor's scope are reported as not found.
type DirectoryService interface {
	ListEmployees(ctx context.Context, actor domain.Actor, f EmployeeFilter) ([]*domain.Employee, error)
	GetEmployee(ctx context.Context, actor domain.Actor, id string) (*domain.Employee, error)

	ListDepartments(ctx context.Context, actor domain.Actor) ([]*domain.Department, error)
	GetDepartment(ctx context.Context, actor domain.Actor, id string) (*domain.Department, error)
	ListJobs(ctx context.Context, actor domain.Actor) ([]*domain.Job, error)
	GetJob(ctx context.Context, actor domain.Actor, id string) (*domain.Job, error)
	ListClients(ctx context.Context, actor domain.Actor) ([]*domain.Client, error)
	GetClient(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error)

	ListProjects(ctx context.Context, actor domain.Actor) ([]*domain.Project, error)
	GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, actor domain.Actor, in ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, actor domain.Actor, id string, in ProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, actor domain.Actor, id string) error

	ListTasks(ctx context.Context, actor domain.Actor, f TaskFilter) ([]*domain.Task, error)
	GetTask(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, actor domain.Actor, in TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, id string, in TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.Actor, id string) error

	Permissions(actor domain.Actor, kind domain.Kind, isCreate bool) Permissions
}
