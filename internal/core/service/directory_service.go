package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/policy"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

type directoryService struct {
	repos ports.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

// NewDirectoryService returns a DirectoryService implementation.
func NewDirectoryService(repos ports.Repositories, log zerolog.Logger) ports.DirectoryService {
	return &directoryService{
		repos: repos,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// visible hides records outside the actor's scope behind notFound.
func (s *directoryService) visible(ctx context.Context, actor domain.Actor, kind domain.Kind, r domain.Record, notFound error) error {
	ok, err := inScope(ctx, s.repos.Resolver, policy.VisibleScope(actor, kind), r)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

func (s *directoryService) ListEmployees(ctx context.Context, actor domain.Actor, f ports.EmployeeFilter) ([]*domain.Employee, error) {
	scope := policy.VisibleScope(actor, domain.KindEmployee)
	if f.ManagerID != "" {
		scope = scope.Narrow(domain.Eq(domain.AttrManager, f.ManagerID))
	}
	if f.DepartmentID != "" {
		scope = scope.Narrow(domain.Eq(domain.AttrDepartment, f.DepartmentID))
	}
	return s.repos.Employees.List(ctx, scope)
}

func (s *directoryService) GetEmployee(ctx context.Context, actor domain.Actor, id string) (*domain.Employee, error) {
	e, err := s.repos.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actor, domain.KindEmployee, e, domain.ErrEmployeeNotFound); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *directoryService) ListDepartments(ctx context.Context, actor domain.Actor) ([]*domain.Department, error) {
	return s.repos.Departments.List(ctx, policy.VisibleScope(actor, domain.KindDepartment))
}

func (s *directoryService) GetDepartment(ctx context.Context, actor domain.Actor, id string) (*domain.Department, error) {
	d, err := s.repos.Departments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actor, domain.KindDepartment, d, domain.ErrDepartmentNotFound); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *directoryService) ListJobs(ctx context.Context, actor domain.Actor) ([]*domain.Job, error) {
	return s.repos.Jobs.List(ctx, policy.VisibleScope(actor, domain.KindJob))
}

func (s *directoryService) GetJob(ctx context.Context, actor domain.Actor, id string) (*domain.Job, error) {
	j, err := s.repos.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actor, domain.KindJob, j, domain.ErrJobNotFound); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *directoryService) ListClients(ctx context.Context, actor domain.Actor) ([]*domain.Client, error) {
	return s.repos.Clients.List(ctx, policy.VisibleScope(actor, domain.KindClient))
}

func (s *directoryService) GetClient(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error) {
	c, err := s.repos.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actor, domain.KindClient, c, domain.ErrClientNotFound); err != nil {
		return nil, err
	}
	return c, nil
}

func projectInputFields(in ports.ProjectInput) policy.FieldSet {
	var fs []policy.Field
	add := func(set bool, f policy.Field) {
		if set {
			fs = append(fs, f)
		}
	}
	add(in.Title != nil, policy.FieldTitle)
	add(in.Status != nil, policy.FieldStatus)
	add(in.Detail != nil, policy.FieldDetail)
	add(in.File != nil, policy.FieldFile)
	add(in.ClientID != nil, policy.FieldClient)
	add(in.DepartmentID != nil, policy.FieldDepartment)
	add(in.Team != nil, policy.FieldTeam)
	add(in.StartDate != nil, policy.FieldStartDate)
	add(in.EndDate != nil, policy.FieldEndDate)
	return policy.Fields(fs...)
}

func (s *directoryService) ListProjects(ctx context.Context, actor domain.Actor) ([]*domain.Project, error) {
	return s.repos.Projects.List(ctx, policy.VisibleScope(actor, domain.KindProject))
}

func (s *directoryService) GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	p, err := s.repos.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actor, domain.KindProject, p, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *directoryService) CreateProject(ctx context.Context, actor domain.Actor, in ports.ProjectInput) (*domain.Project, error) {
	if !policy.CanCreate(actor, domain.KindProject) {
		return nil, domain.ErrForbidden
	}
	if extra := policy.EditableFields(actor, domain.KindProject, true).Missing(projectInputFields(in)); !extra.Empty() {
		return nil, readOnly(extra)
	}

	defaults := policy.CreateDefaults(actor, domain.KindProject)
	p := &domain.Project{
		Status:       domain.ProjectInProgress,
		DepartmentID: defaults.DepartmentID,
		Team:         []string{},
		CreatedAt:    s.now(),
	}
	if err := s.applyProject(ctx, actor, p, in); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if defaults.AddActorToTeam {
		p.AddMember(actor.ID)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", p.ID).Str("created_by", actor.ID).Msg("project created")
	return p, nil
}

func (s *directoryService) UpdateProject(ctx context.Context, actor domain.Actor, id string, in ports.ProjectInput) (*domain.Project, error) {
	p, err := s.GetProject(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanWriteProject(actor) {
		return nil, domain.ErrForbidden
	}
	if extra := policy.EditableFields(actor, domain.KindProject, false).Missing(projectInputFields(in)); !extra.Empty() {
		return nil, readOnly(extra)
	}
	if err := s.applyProject(ctx, actor, p, in); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// DeleteProject removes the project together with its tasks.
func (s *directoryService) DeleteProject(ctx context.Context, actor domain.Actor, id string) error {
	p, err := s.GetProject(ctx, actor, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteProject(actor) {
		return domain.ErrForbidden
	}

	var removed int64
	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repos.Tasks.DeleteByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		removed = n
		return s.repos.Projects.Delete(ctx, p.ID)
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.log.Info().Str("project_id", p.ID).Int64("tasks_removed", removed).Msg("project deleted")
	return nil
}

func (s *directoryService) applyProject(ctx context.Context, actor domain.Actor, p *domain.Project, in ports.ProjectInput) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Detail != nil {
		p.Detail = *in.Detail
	}
	if in.File != nil {
		p.File = *in.File
	}
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}

	if in.ClientID != nil {
		c, err := s.repos.Clients.FindByID(ctx, *in.ClientID)
		if err != nil {
			return err
		}
		p.ClientID = c.ID
	}
	if in.DepartmentID != nil {
		d, err := s.repos.Departments.FindByID(ctx, *in.DepartmentID)
		if err != nil {
			return err
		}
		p.DepartmentID = d.ID
	}
	if in.Team != nil {
		team, err := s.checkTeam(ctx, actor, *in.Team)
		if err != nil {
			return err
		}
		p.Team = team
	}
	return nil
}

// checkTeam loads every member and keeps the team inside the actor's
// reference scope. Duplicates collapse.
func (s *directoryService) checkTeam(ctx context.Context, actor domain.Actor, ids []string) ([]string, error) {
	scope := policy.ReferenceScope(actor, domain.KindProject, policy.FieldTeam)
	team := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, err := s.repos.Employees.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		ok, err := inScope(ctx, s.repos.Resolver, scope, e)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: team member %s outside your scope", domain.ErrForbidden, id)
		}
		team = append(team, e.ID)
	}
	return team, nil
}

func taskInputFields(in ports.TaskInput) policy.FieldSet {
	var fs []policy.Field
	add := func(set bool, f policy.Field) {
		if set {
			fs = append(fs, f)
		}
	}
	add(in.ProjectID != nil, policy.FieldProject)
	add(in.EmployeeID != nil, policy.FieldEmployee)
	add(in.Title != nil, policy.FieldTitle)
	add(in.Detail != nil, policy.FieldDetail)
	add(in.File != nil, policy.FieldFile)
	add(in.Priority != nil, policy.FieldPriority)
	add(in.DueDate != nil, policy.FieldDueDate)
	add(in.Status != nil, policy.FieldStatus)
	add(in.WorkingHours != nil, policy.FieldWorkingHours)
	return policy.Fields(fs...)
}

func (s *directoryService) ListTasks(ctx context.Context, actor domain.Actor, f ports.TaskFilter) ([]*domain.Task, error) {
	scope := policy.VisibleScope(actor, domain.KindTask)
	if f.ProjectID != "" {
		scope = scope.Narrow(domain.Eq(domain.AttrProject, f.ProjectID))
	}
	if f.EmployeeID != "" {
		scope = scope.Narrow(domain.Eq(domain.AttrEmployee, f.EmployeeID))
	}
	return s.repos.Tasks.List(ctx, scope)
}

func (s *directoryService) GetTask(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	t, err := s.repos.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actor, domain.KindTask, t, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *directoryService) CreateTask(ctx context.Context, actor domain.Actor, in ports.TaskInput) (*domain.Task, error) {
	if !policy.CanCreate(actor, domain.KindTask) {
		return nil, domain.ErrForbidden
	}
	// A forced assignee overrides whatever the caller sent.
	d := policy.CreateDefaults(actor, domain.KindTask)
	if d.EmployeeID != "" {
		in.EmployeeID = nil
	}
	if extra := policy.EditableFields(actor, domain.KindTask, true).Missing(taskInputFields(in)); !extra.Empty() {
		return nil, readOnly(extra)
	}
	if d.EmployeeID != "" {
		in.EmployeeID = &d.EmployeeID
	}

	t := &domain.Task{
		Priority:  domain.PriorityNormal,
		Status:    domain.TaskCreated,
		CreatedAt: s.now(),
	}
	if err := s.applyTask(ctx, actor, t, in); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().
		Str("task_id", t.ID).
		Str("project_id", t.ProjectID).
		Str("employee_id", t.EmployeeID).
		Msg("task created")
	return t, nil
}

func (s *directoryService) UpdateTask(ctx context.Context, actor domain.Actor, id string, in ports.TaskInput) (*domain.Task, error) {
	t, err := s.GetTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	assignee, err := s.assignee(ctx, t)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateTask(actor, t, assignee) {
		return nil, domain.ErrForbidden
	}
	if extra := policy.EditableFields(actor, domain.KindTask, false).Missing(taskInputFields(in)); !extra.Empty() {
		return nil, readOnly(extra)
	}
	if err := s.applyTask(ctx, actor, t, in); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *directoryService) DeleteTask(ctx context.Context, actor domain.Actor, id string) error {
	t, err := s.GetTask(ctx, actor, id)
	if err != nil {
		return err
	}
	assignee, err := s.assignee(ctx, t)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(actor, t, assignee) {
		return domain.ErrForbidden
	}
	if err := s.repos.Tasks.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// assignee loads the task's employee. A dangling reference yields nil.
func (s *directoryService) assignee(ctx context.Context, t *domain.Task) (*domain.Employee, error) {
	e, err := s.repos.Employees.FindByID(ctx, t.EmployeeID)
	if err == nil {
		return e, nil
	}
	if domain.IsNotFound(err) {
		return nil, nil
	}
	return nil, err
}

func (s *directoryService) applyTask(ctx context.Context, actor domain.Actor, t *domain.Task, in ports.TaskInput) error {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Detail != nil {
		t.Detail = *in.Detail
	}
	if in.File != nil {
		t.File = *in.File
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		t.DueDate = *in.DueDate
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.WorkingHours != nil {
		v := *in.WorkingHours
		t.WorkingHours = &v
	}

	if in.ProjectID != nil {
		p, err := s.repos.Projects.FindByID(ctx, *in.ProjectID)
		if err != nil {
			return err
		}
		ok, err := inScope(ctx, s.repos.Resolver, policy.ReferenceScope(actor, domain.KindTask, policy.FieldProject), p)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrProjectNotFound
		}
		t.ProjectID = p.ID
	}
	if in.EmployeeID != nil {
		e, err := s.repos.Employees.FindByID(ctx, *in.EmployeeID)
		if err != nil {
			return err
		}
		ok, err := inScope(ctx, s.repos.Resolver, policy.ReferenceScope(actor, domain.KindTask, policy.FieldEmployee), e)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: assignee outside your scope", domain.ErrForbidden)
		}
		t.EmployeeID = e.ID
	}
	return nil
}

func (s *directoryService) Permissions(actor domain.Actor, kind domain.Kind, isCreate bool) ports.Permissions {
	fields := policy.EditableFields(actor, kind, isCreate)
	out := ports.Permissions{
		Kind:      kind,
		CanCreate: policy.CanCreate(actor, kind),
		Fields:    fields.Names(),
	}
	if kind == domain.KindEmployee && fields.Has(policy.FieldRole) {
		out.Roles = policy.AssignableRoles(actor)
	}
	return out
}
