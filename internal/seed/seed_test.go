package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
	"github.com/empresatop10/employee-manager/internal/core/service"
	"github.com/empresatop10/employee-manager/internal/infrastructure/db/memory"
	"github.com/empresatop10/employee-manager/internal/infrastructure/mail"
)

const orgYAML = `departments:
  - Engineering
  - Sales
jobs:
  - title: Developer
    department: Engineering
    min_salary: 3000
    max_salary: 9000
groups:
  - Employees
  - Managers
clients:
  - name: Acme Ltd
    email: contact@acme.com
superadmin:
  email: Root@Example.com
  password: s3cret-pass
`

func newDeps() (ports.Repositories, ports.AccountService) {
	store := memory.New()
	repos := store.Repositories()
	sessions := memory.NewSessionStore()
	accounts := service.NewAccountService(
		repos,
		service.NewTokenIssuer("test-secret", time.Hour, sessions, repos.Employees),
		sessions,
		mail.NewLogMailer(zerolog.Nop()),
		service.AccountOptions{BcryptCost: bcrypt.MinCost},
		zerolog.Nop(),
	)
	return repos, accounts
}

func TestFromYAML(t *testing.T) {
	f, err := FromYAML([]byte(orgYAML))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if len(f.Departments) != 2 || len(f.Jobs) != 1 || len(f.Groups) != 2 || len(f.Clients) != 1 {
		t.Errorf("fixture = %+v", f)
	}
	if f.Jobs[0].MinSalary == nil || *f.Jobs[0].MinSalary != 3000 {
		t.Errorf("min_salary = %v", f.Jobs[0].MinSalary)
	}
	if f.SuperAdmin == nil || f.SuperAdmin.Email != "Root@Example.com" {
		t.Errorf("superadmin = %+v", f.SuperAdmin)
	}
}

func TestFromYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"syntax", "departments: [", "invalid fixture yaml"},
		{"unknown department", "jobs:\n  - title: Dev\n    department: Nowhere\n", "unknown department"},
		{"salary bounds", "departments: [A]\njobs:\n  - title: Dev\n    department: A\n    min_salary: 10\n    max_salary: 5\n", "min_salary above max_salary"},
		{"client email", "clients:\n  - name: Acme\n    email: nope\n", "needs a name and an e-mail"},
		{"superadmin password", "superadmin:\n  email: a@b.com\n", "superadmin needs"},
		{"empty group", "groups: ['']\n", "empty name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.yaml")
	if err := os.WriteFile(path, []byte(orgYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile(path); err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	f := Default()
	if len(f.Groups) == 0 || f.Groups[0] != domain.DefaultGroup {
		t.Errorf("default groups = %v", f.Groups)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	repos, accounts := newDeps()
	f, _ := FromYAML([]byte(orgYAML))

	res, err := Apply(ctx, repos, accounts, f, zerolog.Nop())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Entries) != 7 || res.Created() != 7 {
		t.Fatalf("first run = %+v", res)
	}

	root, err := repos.Employees.FindByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("superadmin missing: %v", err)
	}
	if root.Role != domain.RoleSuperAdmin || !root.IsActive {
		t.Errorf("superadmin = %+v", root)
	}

	jobs, _ := repos.Jobs.List(ctx, domain.All(domain.KindJob))
	if len(jobs) != 1 || jobs[0].MaxSalary == nil || *jobs[0].MaxSalary != 9000 {
		t.Errorf("jobs = %+v", jobs)
	}

	again, err := Apply(ctx, repos, accounts, f, zerolog.Nop())
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if again.Created() != 0 || len(again.Entries) != 7 {
		t.Errorf("second run = %+v", again)
	}
	depts, _ := repos.Departments.List(ctx, domain.All(domain.KindDepartment))
	if len(depts) != 2 {
		t.Errorf("departments = %d, want 2", len(depts))
	}
}

func TestApply_SuperadminEmailHeldByEmployee(t *testing.T) {
	ctx := context.Background()
	repos, accounts := newDeps()
	if err := repos.Employees.Create(ctx, &domain.Employee{Email: "root@example.com", Role: domain.RoleEmployee}); err != nil {
		t.Fatal(err)
	}
	f, _ := FromYAML([]byte(orgYAML))

	_, err := Apply(ctx, repos, accounts, f, zerolog.Nop())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	depts, _ := repos.Departments.List(ctx, domain.All(domain.KindDepartment))
	if len(depts) != 0 {
		t.Errorf("departments were kept after rollback: %d", len(depts))
	}
}
