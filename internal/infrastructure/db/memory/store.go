// Package memory is an in-process entity store. It implements the same ports
// as the Mongo adapter, including scope evaluation and transactions, and
// backs the test suites and STORE_DRIVER=memory deployments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

type dataset struct {
	employees   map[string]*domain.Employee
	departments map[string]*domain.Department
	jobs        map[string]*domain.Job
	clients     map[string]*domain.Client
	projects    map[string]*domain.Project
	tasks       map[string]*domain.Task
	resets      map[string]*domain.PasswordResetRequest
	groups      map[string]*domain.Group
}

func newDataset() *dataset {
	return &dataset{
		employees:   map[string]*domain.Employee{},
		departments: map[string]*domain.Department{},
		jobs:        map[string]*domain.Job{},
		clients:     map[string]*domain.Client{},
		projects:    map[string]*domain.Project{},
		tasks:       map[string]*domain.Task{},
		resets:      map[string]*domain.PasswordResetRequest{},
		groups:      map[string]*domain.Group{},
	}
}

// records returns the rows of kind as scope records.
func (d *dataset) records(kind domain.Kind) ([]domain.Record, error) {
	var out []domain.Record
	switch kind {
	case domain.KindEmployee:
		for _, v := range d.employees {
			out = append(out, v)
		}
	case domain.KindDepartment:
		for _, v := range d.departments {
			out = append(out, v)
		}
	case domain.KindJob:
		for _, v := range d.jobs {
			out = append(out, v)
		}
	case domain.KindClient:
		for _, v := range d.clients {
			out = append(out, v)
		}
	case domain.KindProject:
		for _, v := range d.projects {
			out = append(out, v)
		}
	case domain.KindTask:
		for _, v := range d.tasks {
			out = append(out, v)
		}
	default:
		return nil, fmt.Errorf("memory: unknown kind %q", kind)
	}
	return out, nil
}

// Store holds every collection behind one mutex. Transactions are serialised
// with each other and undo only their own writes when they fail, so writes made
// outside a transaction while it runs survive a rollback.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *dataset
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newDataset()}
}

type txKey struct{}

// txLog collects the inverse of every write made under one transaction.
type txLog struct {
	undo []func(*dataset)
}

// WithinTransaction runs fn with every write it makes rolled back on error.
// Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i](s.data)
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// keep records how to put key back in the collection sel picks, as it is now.
// It must run with mu held, before the write. Outside a transaction it does
// nothing.
func keep[V any](ctx context.Context, d *dataset, sel func(*dataset) map[string]*V, key string, clone func(*V) *V) {
	log, _ := ctx.Value(txKey{}).(*txLog)
	if log == nil {
		return
	}
	prev, existed := sel(d)[key]
	if existed {
		prev = clone(prev)
	}
	log.undo = append(log.undo, func(d *dataset) {
		m := sel(d)
		if existed {
			m[key] = prev
			return
		}
		delete(m, key)
	})
}

func copyOf[V any](v *V) *V {
	c := *v
	return &c
}

func cloneGroup(g *domain.Group) *domain.Group {
	return &domain.Group{Name: g.Name, Members: append([]string(nil), g.Members...)}
}

func employeesOf(d *dataset) map[string]*domain.Employee { return d.employees }
func departmentsOf(d *dataset) map[string]*domain.Department { return d.departments }
func jobsOf(d *dataset) map[string]*domain.Job { return d.jobs }
func clientsOf(d *dataset) map[string]*domain.Client { return d.clients }
func projectsOf(d *dataset) map[string]*domain.Project { return d.projects }
func tasksOf(d *dataset) map[string]*domain.Task { return d.tasks }
func resetsOf(d *dataset) map[string]*domain.PasswordResetRequest { return d.resets }
func groupsOf(d *dataset) map[string]*domain.Group { return d.groups }

// ResolveIDs returns the ids of the records matching a subquery.
func (s *Store) ResolveIDs(_ context.Context, sub domain.Subquery) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(sub)
}

func (s *Store) resolveLocked(sub domain.Subquery) ([]string, error) {
	records, err := s.data.records(sub.Kind)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, r := range records {
		if sub.Clause.Match(r) {
			ids = append(ids, r.RecordID())
		}
	}
	return ids, nil
}

// matchLocked resolves scope against the current data and returns the ids it
// selects. Each clause is evaluated on its own; the union is keyed by id.
func (s *Store) matchLocked(scope domain.Scope) (map[string]bool, error) {
	resolved, err := scope.Resolve(s.resolveLocked)
	if err != nil {
		return nil, err
	}
	records, err := s.data.records(scope.Kind)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool)
	for _, r := range records {
		if resolved.Match(r) {
			ids[r.RecordID()] = true
		}
	}
	return ids, nil
}

// Repositories wires every adapter of the store.
func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Employees:   &employeeRepo{s: s},
		Departments: &departmentRepo{s: s},
		Jobs:        &jobRepo{s: s},
		Clients:     &clientRepo{s: s},
		Projects:    &projectRepo{s: s},
		Tasks:       &taskRepo{s: s},
		Resets:      &resetRepo{s: s},
		Groups:      &groupRepo{s: s},
		Resolver:    s,
		Tx:          s,
	}
}

// Ping always succeeds; it lets the store stand in for Mongo in readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

func newID() string { return uuid.NewString() }

func cloneEmployee(e *domain.Employee) *domain.Employee {
	c := *e
	if e.Salary != nil {
		v := *e.Salary
		c.Salary = &v
	}
	return &c
}

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	if j.MinSalary != nil {
		v := *j.MinSalary
		c.MinSalary = &v
	}
	if j.MaxSalary != nil {
		v := *j.MaxSalary
		c.MaxSalary = &v
	}
	return &c
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	c.Team = append([]string(nil), p.Team...)
	return &c
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.WorkingHours != nil {
		v := *t.WorkingHours
		c.WorkingHours = &v
	}
	return &c
}
