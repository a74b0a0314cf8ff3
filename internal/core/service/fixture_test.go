package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
	"github.com/empresatop10/employee-manager/internal/infrastructure/db/memory"
)

const (
	testPassword = "s3cret-pass"
	resetBase    = "https://app.test/api/v1/reset-password"
)

// stubMailer records what it sends and fails when err is set. onSend runs
// before every delivery attempt.
type stubMailer struct {
	mu     sync.Mutex
	sent   []ports.Message
	err    error
	onSend func()
}

func (m *stubMailer) Send(_ context.Context, msg ports.Message) error {
	if m.onSend != nil {
		m.onSend()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMailer) last() ports.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ports.Message{}
	}
	return m.sent[len(m.sent)-1]
}

// recordingResets remembers every hash it stores.
type recordingResets struct {
	ports.PasswordResetRepository
	mu     sync.Mutex
	hashes []string
}

func (r *recordingResets) Create(ctx context.Context, req *domain.PasswordResetRequest) error {
	r.mu.Lock()
	r.hashes = append(r.hashes, req.Hash)
	r.mu.Unlock()
	return r.PasswordResetRepository.Create(ctx, req)
}

// brokenSessions fails every revocation.
type brokenSessions struct{ ports.SessionStore }

func (brokenSessions) Revoke(context.Context, string) (int64, error) {
	return 0, errors.New("redis: connection refused")
}

var tokenInLink = regexp.MustCompile(`reset-password/([0-9a-f]{32})`)

func tokenFromMail(t *testing.T, msg ports.Message) string {
	t.Helper()
	m := tokenInLink.FindStringSubmatch(msg.HTMLBody)
	if m == nil {
		t.Fatalf("no reset link in mail body %q", msg.HTMLBody)
	}
	return m[1]
}

// org is a small company:
//
//	d1 "Engineering": admin A, manager M (reports E1, E2), manager M2 (report E3)
//	d2 "Sales":       admin B, employee F
type org struct {
	repos    ports.Repositories
	resets   *recordingResets
	sessions *memory.SessionStore
	mailer   *stubMailer
	tokens   ports.TokenIssuer
	accounts ports.AccountService
	dir      ports.DirectoryService
	people   map[string]*domain.Employee
	d1, d2   *domain.Department
	job1     *domain.Job
	client   *domain.Client
}

func newOrg(t *testing.T) *org {
	t.Helper()
	ctx := context.Background()

	repos := memory.New().Repositories()
	resets := &recordingResets{PasswordResetRepository: repos.Resets}
	repos.Resets = resets

	o := &org{
		repos:    repos,
		resets:   resets,
		sessions: memory.NewSessionStore(),
		mailer:   &stubMailer{},
		people:   map[string]*domain.Employee{},
	}
	o.tokens = NewTokenIssuer("test-secret", time.Hour, o.sessions, repos.Employees)
	o.accounts = NewAccountService(repos, o.tokens, o.sessions, o.mailer, AccountOptions{
		AppName:      "Employee Manager",
		ResetBaseURL: resetBase,
		ResetTTL:     48 * time.Hour,
		ContactEmail: "contact@example.com",
		BcryptCost:   bcrypt.MinCost,
	}, zerolog.Nop())
	o.dir = NewDirectoryService(repos, zerolog.Nop())

	var err error
	if o.d1, _, err = repos.Departments.GetOrCreate(ctx, "Engineering"); err != nil {
		t.Fatalf("department: %v", err)
	}
	if o.d2, _, err = repos.Departments.GetOrCreate(ctx, "Sales"); err != nil {
		t.Fatalf("department: %v", err)
	}
	if o.job1, _, err = repos.Jobs.GetOrCreate(ctx, &domain.Job{Title: "Developer", DepartmentID: o.d1.ID}); err != nil {
		t.Fatalf("job: %v", err)
	}
	if o.client, _, err = repos.Clients.GetOrCreate(ctx, "Acme", "ops@acme.io"); err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := repos.Groups.Ensure(ctx, domain.DefaultGroup); err != nil {
		t.Fatalf("group: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	add := func(id string, role domain.Role, dept *domain.Department, manager string) {
		e := &domain.Employee{
			ID:           id,
			Email:        id + "@example.com",
			FirstName:    id,
			Role:         role,
			ManagerID:    manager,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if dept != nil {
			e.DepartmentID = dept.ID
		}
		if err := repos.Employees.Create(ctx, e); err != nil {
			t.Fatalf("employee %s: %v", id, err)
		}
		o.people[id] = e
	}
	add("root", domain.RoleSuperAdmin, nil, "")
	add("a", domain.RoleAdmin, o.d1, "")
	add("m", domain.RoleManager, o.d1, "a")
	add("e1", domain.RoleEmployee, o.d1, "m")
	add("e2", domain.RoleEmployee, o.d1, "m")
	add("m2", domain.RoleManager, o.d1, "a")
	add("e3", domain.RoleEmployee, o.d1, "m2")
	add("b", domain.RoleAdmin, o.d2, "")
	add("f", domain.RoleEmployee, o.d2, "b")
	return o
}

func (o *org) actor(id string) domain.Actor { return o.people[id].Actor() }

func (o *org) project(t *testing.T, id string, dept *domain.Department, team ...string) *domain.Project {
	t.Helper()
	p := &domain.Project{
		ID:           id,
		Title:        id,
		Status:       domain.ProjectInProgress,
		ClientID:     o.client.ID,
		DepartmentID: dept.ID,
		Team:         team,
	}
	if err := o.repos.Projects.Create(context.Background(), p); err != nil {
		t.Fatalf("project %s: %v", id, err)
	}
	return p
}

func (o *org) task(t *testing.T, id, projectID, employeeID string) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:         id,
		Title:      id,
		ProjectID:  projectID,
		EmployeeID: employeeID,
		Status:     domain.TaskCreated,
		Priority:   domain.PriorityNormal,
	}
	if err := o.repos.Tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("task %s: %v", id, err)
	}
	return task
}

func (o *org) countEmployees(t *testing.T) int {
	t.Helper()
	all, err := o.repos.Employees.List(context.Background(), domain.All(domain.KindEmployee))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return len(all)
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func ptr[T any](v T) *T { return &v }
