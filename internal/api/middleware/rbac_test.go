package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

func runRBAC(t *testing.T, mw echo.MiddlewareFunc, role string) (bool, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if role != "" {
		c.Set(ContextRole, role)
	}
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestRBAC_Allows(t *testing.T) {
	called, err := runRBAC(t, RBAC("admin", "manager"), "manager")
	if err != nil || !called {
		t.Fatalf("expected next to run, called=%v err=%v", called, err)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	for _, role := range []string{"viewer", "guest", ""} {
		called, err := runRBAC(t, RBAC("admin", "manager"), role)
		if called {
			t.Fatalf("role %q should not reach next handler", role)
		}
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestRoleGroups(t *testing.T) {
	cases := []struct {
		mw    echo.MiddlewareFunc
		role  string
		allow bool
	}{
		{Readers, domain.RoleViewer, true},
		{Writers, domain.RoleViewer, false},
		{Writers, domain.RoleManager, true},
		{Admins, domain.RoleManager, false},
		{Admins, domain.RoleAdmin, true},
	}
	for _, tc := range cases {
		called, _ := runRBAC(t, tc.mw, tc.role)
		if called != tc.allow {
			t.Fatalf("role %s: expected allow=%v", tc.role, tc.allow)
		}
	}
}
