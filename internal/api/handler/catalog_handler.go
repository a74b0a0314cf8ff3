package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// CatalogHandler serves the read-only reference data: departments, jobs,
// clients, and the per-kind permission descriptors.
type CatalogHandler struct {
	directory ports.DirectoryService
}

func NewCatalogHandler(directory ports.DirectoryService) *CatalogHandler {
	return &CatalogHandler{directory: directory}
}

// ListDepartments handles GET /api/v1/departments.
//
// @Summary      List visible departments
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Department]
// @Router       /api/v1/departments [get]
func (h *CatalogHandler) ListDepartments(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	out, err := h.directory.ListDepartments(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(out))
}

// GetDepartment handles GET /api/v1/departments/:id.
//
// @Summary      Get a department
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department id"
// @Success      200  {object}  domain.Department
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/departments/{id} [get]
func (h *CatalogHandler) GetDepartment(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	d, err := h.directory.GetDepartment(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// ListJobs handles GET /api/v1/jobs.
//
// @Summary      List visible jobs
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Job]
// @Router       /api/v1/jobs [get]
func (h *CatalogHandler) ListJobs(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	out, err := h.directory.ListJobs(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(out))
}

// GetJob handles GET /api/v1/jobs/:id.
//
// @Summary      Get a job
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/jobs/{id} [get]
func (h *CatalogHandler) GetJob(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	j, err := h.directory.GetJob(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, j)
}

// ListClients handles GET /api/v1/clients.
//
// @Summary      List clients
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Client]
// @Router       /api/v1/clients [get]
func (h *CatalogHandler) ListClients(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	out, err := h.directory.ListClients(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(out))
}

// GetClient handles GET /api/v1/clients/:id.
//
// @Summary      Get a client
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/clients/{id} [get]
func (h *CatalogHandler) GetClient(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	cl, err := h.directory.GetClient(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Permissions handles GET /api/v1/permissions/:kind.
//
// @Summary      Describe what the caller may do with a kind of record
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        kind    path      string  true   "employees, departments, jobs, clients, projects or tasks"
// @Param        create  query     bool    false  "Describe a new record instead of an existing one"
// @Success      200     {object}  ports.Permissions
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/permissions/{kind} [get]
func (h *CatalogHandler) Permissions(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	kind := domain.Kind(c.Param("kind"))
	if !kind.Valid() {
		return echo.NewHTTPError(http.StatusNotFound, "unknown kind")
	}
	isCreate := false
	if raw := c.QueryParam("create"); raw != "" {
		if isCreate, err = strconv.ParseBool(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "create must be a boolean")
		}
	}
	return c.JSON(http.StatusOK, h.directory.Permissions(actor, kind, isCreate))
}
