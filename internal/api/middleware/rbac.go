package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

// RBAC lets a request through only when the role set by Auth is allowed.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// Readers may list and fetch records; writers may also mutate them.
var (
	Readers = RBAC(domain.RoleAdmin, domain.RoleManager, domain.RoleViewer)
	Writers = RBAC(domain.RoleAdmin, domain.RoleManager)
	Admins  = RBAC(domain.RoleAdmin)
)
