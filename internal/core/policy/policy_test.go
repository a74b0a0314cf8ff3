package policy

import (
	"reflect"
	"sort"
	"testing"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	employees []*domain.Employee
	projects  []*domain.Project
	tasks     []*domain.Task
}

func (f fixture) records(kind domain.Kind) []domain.Record {
	var out []domain.Record
	switch kind {
	case domain.KindEmployee:
		for _, e := range f.employees {
			out = append(out, e)
		}
	case domain.KindProject:
		for _, p := range f.projects {
			out = append(out, p)
		}
	case domain.KindTask:
		for _, t := range f.tasks {
			out = append(out, t)
		}
	}
	return out
}

// visible evaluates scope over the fixture the way a store would: subqueries
// first, then every clause, then a dedup by id.
func (f fixture) visible(t *testing.T, scope domain.Scope) []string {
	t.Helper()
	resolved, err := scope.Resolve(func(sub domain.Subquery) ([]string, error) {
		var ids []string
		for _, r := range f.records(sub.Kind) {
			if sub.Clause.Match(r) {
				ids = append(ids, r.RecordID())
			}
		}
		return ids, nil
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	seen := map[string]bool{}
	var ids []string
	for _, r := range f.records(scope.Kind) {
		if resolved.Match(r) && !seen[r.RecordID()] {
			seen[r.RecordID()] = true
			ids = append(ids, r.RecordID())
		}
	}
	sort.Strings(ids)
	return ids
}

// org: two departments. d1 has admin A, manager M with reports E1 and E2,
// and manager M2 with report E3. d2 has admin B and employee F.
func newFixture() fixture {
	return fixture{
		employees: []*domain.Employee{
			{ID: "root", Role: domain.RoleSuperAdmin},
			{ID: "A", Role: domain.RoleAdmin, DepartmentID: "d1"},
			{ID: "M", Role: domain.RoleManager, DepartmentID: "d1", ManagerID: "A"},
			{ID: "E1", Role: domain.RoleEmployee, DepartmentID: "d1", ManagerID: "M"},
			{ID: "E2", Role: domain.RoleEmployee, DepartmentID: "d1", ManagerID: "M"},
			{ID: "M2", Role: domain.RoleManager, DepartmentID: "d1", ManagerID: "A"},
			{ID: "E3", Role: domain.RoleEmployee, DepartmentID: "d1", ManagerID: "M2"},
			{ID: "B", Role: domain.RoleAdmin, DepartmentID: "d2"},
			{ID: "F", Role: domain.RoleEmployee, DepartmentID: "d2", ManagerID: "B"},
		},
		projects: []*domain.Project{
			{ID: "p1", DepartmentID: "d1", Team: []string{"M", "E1"}},
			{ID: "p2", DepartmentID: "d1", Team: []string{"E2", "E1"}},
			{ID: "p3", DepartmentID: "d1", Team: []string{"E3"}},
			{ID: "p4", DepartmentID: "d2", Team: []string{"F"}},
		},
		tasks: []*domain.Task{
			{ID: "T", ProjectID: "p1", EmployeeID: "E1"},
			{ID: "t2", ProjectID: "p2", EmployeeID: "E2"},
			{ID: "t3", ProjectID: "p1", EmployeeID: "M"},
			{ID: "t4", ProjectID: "p3", EmployeeID: "E3"},
			{ID: "t5", ProjectID: "p4", EmployeeID: "F"},
		},
	}
}

func (f fixture) actor(id string) domain.Actor {
	for _, e := range f.employees {
		if e.ID == id {
			return e.Actor()
		}
	}
	return domain.Actor{}
}

// ---------------------------------------------------------------------------
// VisibleScope
// ---------------------------------------------------------------------------

func TestVisibleScope_Tasks(t *testing.T) {
	f := newFixture()
	tests := []struct {
		actor string
		want  []string
	}{
		{"root", []string{"T", "t2", "t3", "t4", "t5"}},
		{"A", []string{"T", "t2", "t3", "t4"}},
		{"M", []string{"T", "t2", "t3"}},
		{"M2", []string{"t4"}},
		{"E1", []string{"T"}},
		{"E2", []string{"t2"}},
		{"B", []string{"t5"}},
		{"F", []string{"t5"}},
	}
	for _, tc := range tests {
		t.Run(tc.actor, func(t *testing.T) {
			got := f.visible(t, VisibleScope(f.actor(tc.actor), domain.KindTask))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("tasks visible to %s = %v, want %v", tc.actor, got, tc.want)
			}
		})
	}
}

func TestVisibleScope_EmployeeOnlySeesOwnTasks(t *testing.T) {
	f := newFixture()
	for _, e := range f.employees {
		if e.Role != domain.RoleEmployee {
			continue
		}
		for _, id := range f.visible(t, VisibleScope(e.Actor(), domain.KindTask)) {
			for _, task := range f.tasks {
				if task.ID == id && task.EmployeeID != e.ID {
					t.Fatalf("employee %s sees task %s assigned to %s", e.ID, id, task.EmployeeID)
				}
			}
		}
	}
}

func TestVisibleScope_ManagerReportScenario(t *testing.T) {
	f := newFixture()
	contains := func(ids []string, id string) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	}

	if !contains(f.visible(t, VisibleScope(f.actor("M"), domain.KindTask)), "T") {
		t.Fatalf("manager should see the task of a direct report")
	}
	if contains(f.visible(t, VisibleScope(f.actor("E2"), domain.KindTask)), "T") {
		t.Fatalf("a peer must not see another report's task")
	}
	if !contains(f.visible(t, VisibleScope(f.actor("E1"), domain.KindTask)), "T") {
		t.Fatalf("assignee should see own task")
	}
}

func TestVisibleScope_AdminProjectsStayInDepartment(t *testing.T) {
	f := newFixture()
	for _, admin := range []string{"A", "B"} {
		actor := f.actor(admin)
		for _, id := range f.visible(t, VisibleScope(actor, domain.KindProject)) {
			for _, p := range f.projects {
				if p.ID == id && p.DepartmentID != actor.DepartmentID {
					t.Fatalf("admin %s sees project %s of department %s", admin, id, p.DepartmentID)
				}
			}
		}
	}
	if got := f.visible(t, VisibleScope(f.actor("A"), domain.KindProject)); !reflect.DeepEqual(got, []string{"p1", "p2", "p3"}) {
		t.Fatalf("admin A projects = %v", got)
	}
}

func TestVisibleScope_ProjectsThroughTeamOrReports(t *testing.T) {
	f := newFixture()
	// p1 has M on the team, p2 only has M's reports; both are visible once.
	if got := f.visible(t, VisibleScope(f.actor("M"), domain.KindProject)); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("manager projects = %v", got)
	}
	if got := f.visible(t, VisibleScope(f.actor("E2"), domain.KindProject)); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Fatalf("employee projects = %v", got)
	}
}

func TestVisibleScope_Employees(t *testing.T) {
	f := newFixture()
	tests := []struct {
		actor string
		want  []string
	}{
		{"A", []string{"A", "E1", "E2", "E3", "M", "M2"}},
		{"M", []string{"E1", "E2", "M"}},
		{"E1", []string{"E1"}},
	}
	for _, tc := range tests {
		got := f.visible(t, VisibleScope(f.actor(tc.actor), domain.KindEmployee))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("employees visible to %s = %v, want %v", tc.actor, got, tc.want)
		}
	}
}

func TestVisibleScope_AdminWithoutDepartmentSeesNothing(t *testing.T) {
	f := newFixture()
	f.employees = append(f.employees, &domain.Employee{ID: "orphan", Role: domain.RoleEmployee})
	actor := domain.Actor{ID: "lost", Role: domain.RoleAdmin}

	for _, kind := range []domain.Kind{domain.KindEmployee, domain.KindProject, domain.KindTask} {
		if got := f.visible(t, VisibleScope(actor, kind)); len(got) != 0 {
			t.Fatalf("%s visible without department: %v", kind, got)
		}
	}
}

func TestVisibleScope_SuperAdminIsUnrestricted(t *testing.T) {
	actor := domain.Actor{ID: "root", Role: domain.RoleSuperAdmin}
	for _, kind := range domain.Kinds {
		if !VisibleScope(actor, kind).Unrestricted {
			t.Fatalf("super admin scope over %s is restricted", kind)
		}
	}
}

func TestVisibleScope_UnknownRoleSeesNothing(t *testing.T) {
	actor := domain.Actor{ID: "x", Role: "intern", DepartmentID: "d1"}
	for _, kind := range []domain.Kind{domain.KindEmployee, domain.KindProject, domain.KindTask} {
		if !VisibleScope(actor, kind).Empty() {
			t.Fatalf("unknown role has a scope over %s", kind)
		}
	}
}

// ---------------------------------------------------------------------------
// ReferenceScope
// ---------------------------------------------------------------------------

func TestReferenceScope_ManagerField(t *testing.T) {
	f := newFixture()
	tests := []struct {
		actor string
		want  []string
	}{
		{"root", []string{"A", "B", "M", "M2"}},
		{"A", []string{"M", "M2"}},
		{"M", []string{"M"}},
		{"E1", nil},
	}
	for _, tc := range tests {
		got := f.visible(t, ReferenceScope(f.actor(tc.actor), domain.KindEmployee, FieldManager))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("manager choices for %s = %v, want %v", tc.actor, got, tc.want)
		}
	}
}

func TestReferenceScope_TaskAssignee(t *testing.T) {
	f := newFixture()
	if got := f.visible(t, ReferenceScope(f.actor("M"), domain.KindTask, FieldEmployee)); !reflect.DeepEqual(got, []string{"E1", "E2", "M"}) {
		t.Fatalf("manager assignees = %v", got)
	}
	if got := f.visible(t, ReferenceScope(f.actor("E1"), domain.KindTask, FieldEmployee)); !reflect.DeepEqual(got, []string{"E1"}) {
		t.Fatalf("employee assignees = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Field sets and defaults
// ---------------------------------------------------------------------------

func TestEditableFields(t *testing.T) {
	admin := domain.Actor{ID: "A", Role: domain.RoleAdmin, DepartmentID: "d1"}
	manager := domain.Actor{ID: "M", Role: domain.RoleManager, DepartmentID: "d1"}
	employee := domain.Actor{ID: "E", Role: domain.RoleEmployee, DepartmentID: "d1"}
	root := domain.Actor{ID: "root", Role: domain.RoleSuperAdmin}

	tests := []struct {
		name   string
		actor  domain.Actor
		kind   domain.Kind
		create bool
		has    []Field
		lacks  []Field
		empty  bool
	}{
		{name: "root edits project department", actor: root, kind: domain.KindProject, has: []Field{FieldDepartment, FieldTeam}},
		{name: "admin project department read-only", actor: admin, kind: domain.KindProject, has: []Field{FieldTeam}, lacks: []Field{FieldDepartment}},
		{name: "employee cannot create projects", actor: employee, kind: domain.KindProject, create: true, empty: true},
		{name: "employee task self-assigned", actor: employee, kind: domain.KindTask, create: true, has: []Field{FieldTitle}, lacks: []Field{FieldEmployee}},
		{name: "manager task assignee", actor: manager, kind: domain.KindTask, create: true, has: []Field{FieldEmployee}},
		{name: "manager edit locks chain", actor: manager, kind: domain.KindEmployee, has: []Field{FieldJob, FieldIsActive}, lacks: []Field{FieldManager, FieldDepartment, FieldGroups}},
		{name: "manager create", actor: manager, kind: domain.KindEmployee, create: true, has: []Field{FieldEmail, FieldPassword, FieldJob}, lacks: []Field{FieldManager, FieldDepartment, FieldIsActive}},
		{name: "admin create", actor: admin, kind: domain.KindEmployee, create: true, has: []Field{FieldManager, FieldDepartment, FieldGroups}, lacks: []Field{FieldIsActive}},
		{name: "employee create employee", actor: employee, kind: domain.KindEmployee, create: true, empty: true},
		{name: "employee self profile", actor: employee, kind: domain.KindEmployee, has: []Field{FieldEmail, FieldPhoneNumber}, lacks: []Field{FieldRole, FieldSalary}},
		{name: "admin departments", actor: admin, kind: domain.KindDepartment, empty: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EditableFields(tc.actor, tc.kind, tc.create)
			if tc.empty != got.Empty() {
				t.Fatalf("empty = %v, fields %v", got.Empty(), got.Names())
			}
			for _, f := range tc.has {
				if !got.Has(f) {
					t.Fatalf("missing %s in %v", f, got.Names())
				}
			}
			for _, f := range tc.lacks {
				if got.Has(f) {
					t.Fatalf("unexpected %s in %v", f, got.Names())
				}
			}
		})
	}
}

func TestAssignableRoles(t *testing.T) {
	if got := AssignableRoles(domain.Actor{Role: domain.RoleAdmin}); !reflect.DeepEqual(got, []domain.Role{domain.RoleManager, domain.RoleEmployee}) {
		t.Fatalf("admin roles = %v", got)
	}
	if CanAssignRole(domain.Actor{Role: domain.RoleManager}, domain.RoleManager) {
		t.Fatalf("manager must not promote to manager")
	}
	if CanAssignRole(domain.Actor{Role: domain.RoleEmployee}, domain.RoleEmployee) {
		t.Fatalf("employee cannot assign roles")
	}
}

func TestCreateDefaults(t *testing.T) {
	manager := domain.Actor{ID: "M", Role: domain.RoleManager, DepartmentID: "d1"}
	if d := CreateDefaults(manager, domain.KindEmployee); d.DepartmentID != "d1" || d.ManagerID != "M" {
		t.Fatalf("manager employee defaults = %+v", d)
	}
	if d := CreateDefaults(manager, domain.KindProject); d.DepartmentID != "d1" || !d.AddActorToTeam {
		t.Fatalf("manager project defaults = %+v", d)
	}
	if d := CreateDefaults(domain.Actor{ID: "E", Role: domain.RoleEmployee}, domain.KindTask); d.EmployeeID != "E" {
		t.Fatalf("employee task defaults = %+v", d)
	}
	if d := CreateDefaults(domain.Actor{ID: "root", Role: domain.RoleSuperAdmin}, domain.KindProject); d != (Defaults{}) {
		t.Fatalf("super admin defaults = %+v", d)
	}
}

func TestTaskPermissions(t *testing.T) {
	f := newFixture()
	task := f.tasks[0] // T assigned to E1, managed by M
	assignee := f.employees[3]

	tests := []struct {
		actor          string
		update, delete bool
	}{
		{"root", true, true},
		{"A", true, true},
		{"M", true, true},
		{"E1", true, false},
		{"E2", false, false},
		{"M2", false, false},
		{"B", false, false},
	}
	for _, tc := range tests {
		actor := f.actor(tc.actor)
		if got := CanUpdateTask(actor, task, assignee); got != tc.update {
			t.Fatalf("%s update = %v, want %v", tc.actor, got, tc.update)
		}
		if got := CanDeleteTask(actor, task, assignee); got != tc.delete {
			t.Fatalf("%s delete = %v, want %v", tc.actor, got, tc.delete)
		}
	}
}

func TestCanEditEmployee(t *testing.T) {
	f := newFixture()
	e1 := f.employees[3]
	if !CanEditEmployee(f.actor("M"), e1) {
		t.Fatalf("manager should edit a direct report")
	}
	if CanEditEmployee(f.actor("M2"), e1) {
		t.Fatalf("another manager must not edit E1")
	}
	if CanEditEmployee(f.actor("E2"), e1) {
		t.Fatalf("peer must not edit E1")
	}
	if !CanEditEmployee(f.actor("E1"), e1) {
		t.Fatalf("employee should edit self")
	}
}
