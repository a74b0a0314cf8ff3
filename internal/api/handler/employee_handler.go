package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/api/metrics"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// EmployeeHandler serves the users resource. Reads go through the directory
// service; writes go through the account service.
type EmployeeHandler struct {
	accounts  ports.AccountService
	directory ports.DirectoryService
}

func NewEmployeeHandler(accounts ports.AccountService, directory ports.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{accounts: accounts, directory: directory}
}

// List handles GET /api/v1/users.
//
// @Summary      List visible employees
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        manager_id     query     string  false  "Only direct reports of this manager"
// @Param        department_id  query     string  false  "Only employees of this department"
// @Success      200            {object}  listResponse[domain.Employee]
// @Router       /api/v1/users [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	employees, err := h.directory.ListEmployees(c.Request().Context(), actor, ports.EmployeeFilter{
		ManagerID:    c.QueryParam("manager_id"),
		DepartmentID: c.QueryParam("department_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(employees))
}

// Get handles GET /api/v1/users/:id.
//
// @Summary      Get an employee
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  domain.Employee
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	e, err := h.directory.GetEmployee(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Create handles POST /api/v1/users.
//
// @Summary      Create an employee
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employeeRequest  true  "Employee"
// @Success      201   {object}  domain.Employee
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req employeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.accounts.CreateEmployee(c.Request().Context(), actor, toEmployeeInput(req))
	if err != nil {
		return err
	}
	metrics.EmployeesCreatedTotal.WithLabelValues(string(actor.Role)).Inc()
	return c.JSON(http.StatusCreated, e)
}

// Update handles PATCH /api/v1/users/:id. Only the fields present in the body change.
//
// @Summary      Update an employee
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Employee id"
// @Param        body  body      employeeRequest  true  "Fields to change"
// @Success      200   {object}  domain.Employee
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users/{id} [patch]
func (h *EmployeeHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req employeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.accounts.UpdateEmployee(c.Request().Context(), actor, c.Param("id"), toEmployeeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Me handles GET /api/v1/users/me.
//
// @Summary      Get the authenticated employee
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Employee
// @Router       /api/v1/users/me [get]
func (h *EmployeeHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	e, err := h.directory.GetEmployee(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}
