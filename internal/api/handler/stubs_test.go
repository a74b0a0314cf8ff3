package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/api/middleware"
	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

type stubAccountService struct {
	authenticateFn   func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	createFn         func(ctx context.Context, actor domain.Actor, in ports.EmployeeInput) (*domain.Employee, error)
	updateFn         func(ctx context.Context, actor domain.Actor, id string, in ports.EmployeeInput) (*domain.Employee, error)
	changePasswordFn func(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error
	requestResetFn   func(ctx context.Context, email string) error
	tokenValidFn     func(ctx context.Context, token string) error
	consumeResetFn   func(ctx context.Context, token, newPassword, confirm string) error
	deviceTokenFn    func(ctx context.Context, actor domain.Actor, token string) error
	contactFn        func(ctx context.Context, actor domain.Actor, in ports.ContactInput) error
}

func (s *stubAccountService) Authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAccountService) CreateEmployee(ctx context.Context, actor domain.Actor, in ports.EmployeeInput) (*domain.Employee, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubAccountService) UpdateEmployee(ctx context.Context, actor domain.Actor, id string, in ports.EmployeeInput) (*domain.Employee, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, actor, oldPassword, newPassword)
}

func (s *stubAccountService) RequestReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}

func (s *stubAccountService) ResetTokenValid(ctx context.Context, token string) error {
	return s.tokenValidFn(ctx, token)
}

func (s *stubAccountService) ConsumeReset(ctx context.Context, token, newPassword, confirm string) error {
	return s.consumeResetFn(ctx, token, newPassword, confirm)
}

func (s *stubAccountService) SetDeviceToken(ctx context.Context, actor domain.Actor, token string) error {
	return s.deviceTokenFn(ctx, actor, token)
}

func (s *stubAccountService) SendContact(ctx context.Context, actor domain.Actor, in ports.ContactInput) error {
	return s.contactFn(ctx, actor, in)
}

func (s *stubAccountService) CreateSuperuser(context.Context, string, string) (*domain.Employee, error) {
	return nil, domain.ErrForbidden
}

// stubDirectory embeds the interface so tests only override what they use.
type stubDirectory struct {
	ports.DirectoryService
	listEmployeesFn func(ctx context.Context, actor domain.Actor, f ports.EmployeeFilter) ([]*domain.Employee, error)
	getProjectFn    func(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
	createTaskFn    func(ctx context.Context, actor domain.Actor, in ports.TaskInput) (*domain.Task, error)
	listTasksFn     func(ctx context.Context, actor domain.Actor, f ports.TaskFilter) ([]*domain.Task, error)
	deleteProjectFn func(ctx context.Context, actor domain.Actor, id string) error
	permissionsFn   func(actor domain.Actor, kind domain.Kind, isCreate bool) ports.Permissions
}

func (s *stubDirectory) ListEmployees(ctx context.Context, actor domain.Actor, f ports.EmployeeFilter) ([]*domain.Employee, error) {
	return s.listEmployeesFn(ctx, actor, f)
}

func (s *stubDirectory) GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	return s.getProjectFn(ctx, actor, id)
}

func (s *stubDirectory) CreateTask(ctx context.Context, actor domain.Actor, in ports.TaskInput) (*domain.Task, error) {
	return s.createTaskFn(ctx, actor, in)
}

func (s *stubDirectory) ListTasks(ctx context.Context, actor domain.Actor, f ports.TaskFilter) ([]*domain.Task, error) {
	return s.listTasksFn(ctx, actor, f)
}

func (s *stubDirectory) DeleteProject(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteProjectFn(ctx, actor, id)
}

func (s *stubDirectory) Permissions(actor domain.Actor, kind domain.Kind, isCreate bool) ports.Permissions {
	return s.permissionsFn(actor, kind, isCreate)
}

var manager = domain.Actor{ID: "m1", Role: domain.RoleManager, DepartmentID: "d1"}

// newContext builds an echo context with the validator registered and, when
// actor has an id, the actor injected the way the Auth middleware does.
func newContext(method, target, body string, actor domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor.ID != "" {
		c.Set(middleware.ActorKey, actor)
		c.Set(middleware.RoleKey, string(actor.Role))
	}
	return c, rec
}

// httpCode extracts the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

