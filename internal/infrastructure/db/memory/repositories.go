package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

type employeeRepo struct{ s *Store }

func (r *employeeRepo) emailTakenLocked(email, exceptID string) bool {
	for _, e := range r.s.data.employees {
		if e.Email == email && e.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *employeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e.Email = domain.NormalizeEmail(e.Email)
	if r.emailTakenLocked(e.Email, "") {
		return fmt.Errorf("insert employee: %w", domain.ErrEmailTaken)
	}
	if e.ID == "" {
		e.ID = newID()
	}
	keep(ctx, r.s.data, employeesOf, e.ID, cloneEmployee)
	r.s.data.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (r *employeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.employees[e.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	e.Email = domain.NormalizeEmail(e.Email)
	if r.emailTakenLocked(e.Email, e.ID) {
		return fmt.Errorf("update employee: %w", domain.ErrEmailTaken)
	}
	keep(ctx, r.s.data, employeesOf, e.ID, cloneEmployee)
	r.s.data.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (r *employeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.data.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *employeeRepo) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email = domain.NormalizeEmail(email)
	for _, e := range r.s.data.employees {
		if e.Email == email {
			return cloneEmployee(e), nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (r *employeeRepo) List(_ context.Context, scope domain.Scope) ([]*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids, err := r.s.matchLocked(scope)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	out := make([]*domain.Employee, 0, len(ids))
	for id := range ids {
		out = append(out, cloneEmployee(r.s.data.employees[id]))
	}
	domain.SortEmployees(out)
	return out, nil
}

type departmentRepo struct{ s *Store }

func (r *departmentRepo) GetOrCreate(ctx context.Context, title string) (*domain.Department, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.data.departments {
		if d.Title == title {
			c := *d
			return &c, false, nil
		}
	}
	d := &domain.Department{ID: newID(), Title: title}
	c := *d
	keep(ctx, r.s.data, departmentsOf, d.ID, copyOf[domain.Department])
	r.s.data.departments[d.ID] = &c
	return d, true, nil
}

func (r *departmentRepo) FindByID(_ context.Context, id string) (*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.data.departments[id]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	c := *d
	return &c, nil
}

func (r *departmentRepo) List(_ context.Context, scope domain.Scope) ([]*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids, err := r.s.matchLocked(scope)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	out := make([]*domain.Department, 0, len(ids))
	for id := range ids {
		c := *r.s.data.departments[id]
		out = append(out, &c)
	}
	domain.SortDepartments(out)
	return out, nil
}

type jobRepo struct{ s *Store }

func (r *jobRepo) GetOrCreate(ctx context.Context, job *domain.Job) (*domain.Job, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, j := range r.s.data.jobs {
		if j.Title == job.Title && j.DepartmentID == job.DepartmentID {
			return cloneJob(j), false, nil
		}
	}
	created := cloneJob(job)
	if created.ID == "" {
		created.ID = newID()
	}
	keep(ctx, r.s.data, jobsOf, created.ID, cloneJob)
	r.s.data.jobs[created.ID] = cloneJob(created)
	return created, true, nil
}

func (r *jobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.data.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *jobRepo) List(_ context.Context, scope domain.Scope) ([]*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids, err := r.s.matchLocked(scope)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	out := make([]*domain.Job, 0, len(ids))
	for id := range ids {
		out = append(out, cloneJob(r.s.data.jobs[id]))
	}
	domain.SortJobs(out)
	return out, nil
}

type clientRepo struct{ s *Store }

func (r *clientRepo) GetOrCreate(ctx context.Context, name, email string) (*domain.Client, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email = domain.NormalizeEmail(email)
	for _, c := range r.s.data.clients {
		if c.Email != email {
			continue
		}
		if c.Name != name {
			return nil, false, fmt.Errorf("client %s: %w", email, domain.ErrConflict)
		}
		out := *c
		return &out, false, nil
	}
	c := &domain.Client{ID: newID(), Name: name, Email: email}
	stored := *c
	keep(ctx, r.s.data, clientsOf, c.ID, copyOf[domain.Client])
	r.s.data.clients[c.ID] = &stored
	return c, true, nil
}

func (r *clientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	out := *c
	return &out, nil
}

func (r *clientRepo) List(_ context.Context, scope domain.Scope) ([]*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids, err := r.s.matchLocked(scope)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]*domain.Client, 0, len(ids))
	for id := range ids {
		c := *r.s.data.clients[id]
		out = append(out, &c)
	}
	domain.SortClients(out)
	return out, nil
}

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = newID()
	}
	keep(ctx, r.s.data, projectsOf, p.ID, cloneProject)
	r.s.data.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *projectRepo) Update(ctx context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	keep(ctx, r.s.data, projectsOf, p.ID, cloneProject)
	r.s.data.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	keep(ctx, r.s.data, projectsOf, id, cloneProject)
	delete(r.s.data.projects, id)
	return nil
}

func (r *projectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *projectRepo) List(_ context.Context, scope domain.Scope) ([]*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids, err := r.s.matchLocked(scope)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]*domain.Project, 0, len(ids))
	for id := range ids {
		out = append(out, cloneProject(r.s.data.projects[id]))
	}
	domain.SortProjects(out)
	return out, nil
}

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(ctx context.Context, t *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t.ID == "" {
		t.ID = newID()
	}
	keep(ctx, r.s.data, tasksOf, t.ID, cloneTask)
	r.s.data.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *taskRepo) Update(ctx context.Context, t *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	keep(ctx, r.s.data, tasksOf, t.ID, cloneTask)
	r.s.data.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	keep(ctx, r.s.data, tasksOf, id, cloneTask)
	delete(r.s.data.tasks, id)
	return nil
}

func (r *taskRepo) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.data.tasks {
		if t.ProjectID == projectID {
			keep(ctx, r.s.data, tasksOf, id, cloneTask)
			delete(r.s.data.tasks, id)
			n++
		}
	}
	return n, nil
}

func (r *taskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.data.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *taskRepo) List(_ context.Context, scope domain.Scope) ([]*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids, err := r.s.matchLocked(scope)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]*domain.Task, 0, len(ids))
	for id := range ids {
		out = append(out, cloneTask(r.s.data.tasks[id]))
	}
	domain.SortTasks(out)
	return out, nil
}

type resetRepo struct{ s *Store }

func (r *resetRepo) Create(ctx context.Context, req *domain.PasswordResetRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.resets[req.Hash]; ok {
		return fmt.Errorf("insert reset request: %w", domain.ErrConflict)
	}
	c := *req
	keep(ctx, r.s.data, resetsOf, req.Hash, copyOf[domain.PasswordResetRequest])
	r.s.data.resets[req.Hash] = &c
	return nil
}

func (r *resetRepo) Find(_ context.Context, hash string) (*domain.PasswordResetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.data.resets[hash]
	if !ok || req.Expired {
		return nil, domain.ErrResetNotFound
	}
	c := *req
	return &c, nil
}

func (r *resetRepo) Consume(ctx context.Context, hash string) (*domain.PasswordResetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.data.resets[hash]
	if !ok || req.Expired {
		return nil, domain.ErrResetNotFound
	}
	keep(ctx, r.s.data, resetsOf, hash, copyOf[domain.PasswordResetRequest])
	req.Expired = true
	c := *req
	return &c, nil
}

type groupRepo struct{ s *Store }

func (r *groupRepo) Ensure(ctx context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.groups[name]; ok {
		return false, nil
	}
	keep(ctx, r.s.data, groupsOf, name, cloneGroup)
	r.s.data.groups[name] = &domain.Group{Name: name}
	return true, nil
}

func (r *groupRepo) AddMember(ctx context.Context, name, employeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.data.groups[name]
	if !ok {
		return fmt.Errorf("group %q: %w", name, domain.ErrGroupNotFound)
	}
	for _, m := range g.Members {
		if m == employeeID {
			return nil
		}
	}
	keep(ctx, r.s.data, groupsOf, name, cloneGroup)
	g.Members = append(g.Members, employeeID)
	return nil
}

func (r *groupRepo) GroupsOf(_ context.Context, employeeID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var names []string
	for name, g := range r.s.data.groups {
		for _, m := range g.Members {
			if m == employeeID {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
