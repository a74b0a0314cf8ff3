package ports

import (
	"context"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// EmployeeRepository persists employees. Create and Update return
// domain.ErrEmailTaken when the e-mail belongs to somebody else.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	Update(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
	// List returns the employees inside scope, deduplicated by id.
	List(ctx context.Context, scope domain.Scope) ([]*domain.Employee, error)
}

type DepartmentRepository interface {
	// GetOrCreate returns the department titled title, creating it when absent.
	GetOrCreate(ctx context.Context, title string) (*domain.Department, bool, error)
	FindByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, scope domain.Scope) ([]*domain.Department, error)
}

type JobRepository interface {
	// GetOrCreate is keyed by (title, department). Salary bounds only apply on creation.
	GetOrCreate(ctx context.Context, job *domain.Job) (*domain.Job, bool, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context, scope domain.Scope) ([]*domain.Job, error)
}

type ClientRepository interface {
	// GetOrCreate is keyed by e-mail. It returns domain.ErrConflict when
	// the e-mail already belongs to a client with another name.
	GetOrCreate(ctx context.Context, name, email string) (*domain.Client, bool, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, scope domain.Scope) ([]*domain.Client, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// DeleteByProject removes every task of the project and returns how many went.
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, scope domain.Scope) ([]*domain.Task, error)
}

// PasswordResetRepository stores reset requests keyed by their token.
type PasswordResetRepository interface {
	Create(ctx context.Context, r *domain.PasswordResetRequest) error
	// Find returns the pending request for hash, or domain.ErrResetNotFound.
	Find(ctx context.Context, hash string) (*domain.PasswordResetRequest, error)
	// Consume flips a pending request to expired in one atomic step and
	// returns it. Concurrent callers race on the flip: exactly one wins and
	// the rest get domain.ErrResetNotFound.
	Consume(ctx context.Context, hash string) (*domain.PasswordResetRequest, error)
}

// GroupRepository stores permission groups.
type GroupRepository interface {
	// Ensure creates the group when absent and reports whether it did.
	Ensure(ctx context.Context, name string) (bool, error)
	// AddMember returns domain.ErrGroupNotFound for an unknown group.
	AddMember(ctx context.Context, name, employeeID string) error
	GroupsOf(ctx context.Context, employeeID string) ([]string, error)
}

// ScopeResolver answers the subqueries embedded in a scope.
type ScopeResolver interface {
	ResolveIDs(ctx context.Context, sub domain.Subquery) ([]string, error)
}

// Transactor runs fn as one unit of work. Every repository call made with the
// ctx handed to fn joins the transaction; an error from fn rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories bundles one store's adapters.
type Repositories struct {
	Employees   EmployeeRepository
	Departments DepartmentRepository
	Jobs        JobRepository
	Clients     ClientRepository
	Projects    ProjectRepository
	Tasks       TaskRepository
	Resets      PasswordResetRepository
	Groups      GroupRepository
	Resolver    ScopeResolver
	Tx          Transactor
}
