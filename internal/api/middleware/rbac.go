package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Staff admits every role that may manage other employees.
func Staff() echo.MiddlewareFunc {
	return RBAC(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleManager)
}
