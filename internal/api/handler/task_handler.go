package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/api/metrics"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	directory ports.DirectoryService
}

func NewTaskHandler(directory ports.DirectoryService) *TaskHandler {
	return &TaskHandler{directory: directory}
}

// List handles GET /api/v1/tasks.
//
// @Summary      List visible tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        project_id   query     string  false  "Only tasks of this project"
// @Param        employee_id  query     string  false  "Only tasks assigned to this employee"
// @Success      200          {object}  listResponse[taskResponse]
// @Router       /api/v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	tasks, err := h.directory.ListTasks(c.Request().Context(), actor, ports.TaskFilter{
		ProjectID:  c.QueryParam("project_id"),
		EmployeeID: c.QueryParam("employee_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(toTaskResponses(tasks)))
}

// Get handles GET /api/v1/tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	t, err := h.directory.GetTask(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(t))
}

// Create handles POST /api/v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      taskRequest  true  "Task"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := toTaskInput(req)
	if err != nil {
		return err
	}

	t, err := h.directory.CreateTask(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("tasks", "create").Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(t))
}

// Update handles PATCH /api/v1/tasks/:id.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Task id"
// @Param        body  body      taskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := toTaskInput(req)
	if err != nil {
		return err
	}

	t, err := h.directory.UpdateTask(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("tasks", "update").Inc()
	return c.JSON(http.StatusOK, toTaskResponse(t))
}

// Delete handles DELETE /api/v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteTask(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("tasks", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
