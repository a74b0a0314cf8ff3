package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/api/metrics"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	directory ports.DirectoryService
}

func NewProjectHandler(directory ports.DirectoryService) *ProjectHandler {
	return &ProjectHandler{directory: directory}
}

// List handles GET /api/v1/projects.
//
// @Summary      List visible projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Project]
// @Router       /api/v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	projects, err := h.directory.ListProjects(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(projects))
}

// Get handles GET /api/v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	p, err := h.directory.GetProject(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.directory.CreateProject(c.Request().Context(), actor, toProjectInput(req))
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("projects", "create").Inc()
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/v1/projects/:id. Fields absent from the body keep their value.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project id"
// @Param        body  body      projectRequest  true  "Fields to change"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.directory.UpdateProject(c.Request().Context(), actor, c.Param("id"), toProjectInput(req))
	if err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("projects", "update").Inc()
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/v1/projects/:id. The project's tasks go with it.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     BearerAuth
// @Param        id   path  string  true  "Project id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteProject(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	metrics.RecordsWrittenTotal.WithLabelValues("projects", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
