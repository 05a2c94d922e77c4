package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fieldworks/backoffice/internal/api/middleware"
)

// actor names the operator behind the request for the change feed. Requests
// that bypassed Auth are recorded as "anonymous".
func actor(c echo.Context) string {
	if username, _ := c.Get(middleware.ContextUsername).(string); username != "" {
		return username
	}
	return "anonymous"
}
