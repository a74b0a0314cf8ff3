package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/api/middleware"
	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware. A missing
// actor means the route was mounted without Auth.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bind decodes the request body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
