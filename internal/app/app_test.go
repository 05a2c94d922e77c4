package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/fieldworks/backoffice/internal/infrastructure/config"
)

func testConfig(storage string) *config.Config {
	cfg := &config.Config{
		Port:         "0",
		Env:          "test",
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		Storage:      storage,
		EventWorkers: 2,
	}
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "admin-password"
	cfg.List.DefaultPageSize = 10
	cfg.List.MaxPageSize = 100
	cfg.Redis.IdempotencyTTL = time.Hour
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zerolog.Nop(), WithRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

type client struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func (c *client) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo) *client {
	t.Helper()
	c := &client{t: t, e: e}
	rec := c.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin-password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login: no token in %s", rec.Body.String())
	}
	c.token = resp.Token
	return c
}

type recordBody struct {
	Data struct {
		ID        string `json:"id"`
		DisplayID string `json:"display_id"`
		Version   int64  `json:"version"`
	} `json:"data"`
}

type listBody struct {
	Data       []map[string]any `json:"data"`
	Pagination struct {
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestApp_MemoryEndToEnd(t *testing.T) {
	a := newTestApp(t, testConfig(config.StorageMemory))
	c := login(t, a.Echo)

	rec := c.do(http.MethodPost, "/v1/suppliers", `{"name":"Acme Electrical","category":"electrical","status":"active"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create supplier: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	supplier := decode[recordBody](t, rec).Data
	if got := rec.Header().Get(echo.HeaderLocation); got != "/v1/suppliers/"+supplier.ID {
		t.Fatalf("unexpected Location %q", got)
	}
	if got := rec.Header().Get("ETag"); got != `"1"` {
		t.Fatalf("unexpected ETag %q", got)
	}
	if !strings.HasPrefix(supplier.DisplayID, "SP-") {
		t.Fatalf("unexpected display id %q", supplier.DisplayID)
	}

	order := `{"supplier_id":"` + supplier.ID + `","items":[{"description":"Breaker","quantity":2,"unit_price":50}]}`
	first := c.do(http.MethodPost, "/v1/orders", order, "Idempotency-Key", "po-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d: %s", first.Code, first.Body.String())
	}
	retry := c.do(http.MethodPost, "/v1/orders", order, "Idempotency-Key", "po-1")
	if retry.Code != http.StatusOK || retry.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay, got %d %v", retry.Code, retry.Header())
	}
	if decode[recordBody](t, first).Data.ID != decode[recordBody](t, retry).Data.ID {
		t.Fatalf("replay returned a different record")
	}

	list := decode[listBody](t, c.do(http.MethodGet, "/v1/orders?supplier="+supplier.ID, ""))
	if list.Pagination.Total != 1 {
		t.Fatalf("expected 1 order, got %d", list.Pagination.Total)
	}

	if rec := c.do(http.MethodDelete, "/v1/suppliers/"+supplier.ID, ""); rec.Code != http.StatusConflict {
		t.Fatalf("delete referenced supplier: expected 409, got %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/v1/labor", `{"trade":"Electrician"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid labor: expected 422, got %d", rec.Code)
	}
	if rec := c.do(http.MethodPut, "/v1/suppliers/"+supplier.ID, `{"name":"Acme","category":"electrical","status":"active"}`, "If-Match", `"7"`); rec.Code != http.StatusConflict {
		t.Fatalf("stale If-Match: expected 409, got %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/v1/changes", `{}`); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("changes are read-only: expected 405, got %d", rec.Code)
	}

	anon := &client{t: t, e: a.Echo}
	if rec := anon.do(http.MethodGet, "/v1/suppliers", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", rec.Code)
	}

	// Close drains the change dispatcher; the router keeps serving reads.
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	changes := decode[listBody](t, c.do(http.MethodGet, "/v1/changes?op=created", ""))
	if changes.Pagination.Total != 2 {
		t.Fatalf("expected 2 created events, got %d: %+v", changes.Pagination.Total, changes.Data)
	}
}

func TestApp_SQLitePersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(config.StorageSQLite)
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "backoffice.db")

	a := newTestApp(t, cfg)
	c := login(t, a.Echo)
	rec := c.do(http.MethodPost, "/v1/staff", `{"name":"Dana Cole","email":"dana@example.com","department":"Operations","position":"Coordinator"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create staff: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[recordBody](t, rec).Data
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	b := newTestApp(t, cfg)
	defer func() { _ = b.Close(context.Background()) }()
	c = login(t, b.Echo)

	rec = c.do(http.MethodGet, "/v1/staff/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get after restart: expected 200, got %d", rec.Code)
	}
	rec = c.do(http.MethodPost, "/v1/staff", `{"name":"Eli Park","email":"eli@example.com","department":"Operations","position":"Coordinator"}`)
	next := decode[recordBody](t, rec).Data
	if next.DisplayID == created.DisplayID {
		t.Fatalf("display id reused after restart: %s", next.DisplayID)
	}
}

func TestApp_RunReleasesResourcesWhenSeedFails(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(config.StorageSQLite)
	cfg.SQLite.Path = filepath.Join(dir, "backoffice.db")
	cfg.SeedFile = filepath.Join(dir, "missing.yaml")

	a := newTestApp(t, cfg)
	if err := a.Run(context.Background()); err == nil {
		t.Fatal("expected seed error")
	}
	if err := a.store.sql.Ping(context.Background()); err == nil {
		t.Fatal("database still open after failed run")
	}
}
