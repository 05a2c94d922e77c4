package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"

	"github.com/fieldworks/backoffice/internal/api/middleware"
	"github.com/fieldworks/backoffice/internal/core/catalog"
	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
	"github.com/fieldworks/backoffice/internal/core/ports"
)

type stubResourceService struct {
	listFn   func(ctx context.Context, in ports.ListInput) (listing.Page[*domain.Supplier], error)
	getFn    func(ctx context.Context, id string) (*ports.RecordDetail[*domain.Supplier], error)
	createFn func(ctx context.Context, in ports.CreateInput[*domain.Supplier]) (*ports.CreateResult[*domain.Supplier], error)
	updateFn func(ctx context.Context, in ports.UpdateInput[*domain.Supplier]) (*domain.Supplier, error)
	deleteFn func(ctx context.Context, in ports.DeleteInput) error
}

func (s *stubResourceService) List(ctx context.Context, in ports.ListInput) (listing.Page[*domain.Supplier], error) {
	return s.listFn(ctx, in)
}

func (s *stubResourceService) Get(ctx context.Context, id string) (*ports.RecordDetail[*domain.Supplier], error) {
	return s.getFn(ctx, id)
}

func (s *stubResourceService) Create(ctx context.Context, in ports.CreateInput[*domain.Supplier]) (*ports.CreateResult[*domain.Supplier], error) {
	return s.createFn(ctx, in)
}

func (s *stubResourceService) Update(ctx context.Context, in ports.UpdateInput[*domain.Supplier]) (*domain.Supplier, error) {
	return s.updateFn(ctx, in)
}

func (s *stubResourceService) Delete(ctx context.Context, in ports.DeleteInput) error {
	return s.deleteFn(ctx, in)
}

func supplier(id string, version int64) *domain.Supplier {
	return &domain.Supplier{
		Meta:     domain.Meta{ID: id, DisplayID: "SP-2025-001", Version: version},
		Name:     "Acme",
		Category: "electrical",
		Status:   domain.StatusActive,
	}
}

// serve mounts h on a fresh Echo under /v1 without auth and runs one request.
func serve(h Mounter, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	pass := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextUsername, "alice")
			return next(c)
		}
	}
	h.Mount(e.Group("/v1"), pass, pass)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestResourceHandler_List_ParsesQuery(t *testing.T) {
	var got ports.ListInput
	stub := &stubResourceService{
		listFn: func(ctx context.Context, in ports.ListInput) (listing.Page[*domain.Supplier], error) {
			got = in
			return listing.Page[*domain.Supplier]{
				Items: []*domain.Supplier{supplier("s1", 1)}, Total: 11, Page: 2, PageSize: 5, TotalPages: 3,
			}, nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	rec := serve(h, http.MethodGet, "/v1/suppliers?search=acme&status=active&filter[category]=electrical&page=2&page_size=5&unrelated=x", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	want := ports.ListInput{
		Search:   "acme",
		Filters:  map[string]string{"status": "active", "category": "electrical"},
		Page:     2,
		PageSize: 5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list input mismatch (-want +got):\n%s", diff)
	}

	var resp struct {
		Data       []map[string]any   `json:"data"`
		Pagination paginationResponse `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination != (paginationResponse{Total: 11, Page: 2, PageSize: 5, TotalPages: 3}) {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestResourceHandler_List_ExplicitFilterWinsOverAlias(t *testing.T) {
	var got ports.ListInput
	stub := &stubResourceService{
		listFn: func(ctx context.Context, in ports.ListInput) (listing.Page[*domain.Supplier], error) {
			got = in
			return listing.Page[*domain.Supplier]{Items: []*domain.Supplier{}}, nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	for i := 0; i < 10; i++ {
		rec := serve(h, http.MethodGet, "/v1/suppliers?status=inactive&filter[status]=active", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Filters["status"] != "active" {
			t.Fatalf("expected filter[status] to win, got %q", got.Filters["status"])
		}
	}
}

func TestResourceHandler_List_BadPaging(t *testing.T) {
	stub := &stubResourceService{
		listFn: func(ctx context.Context, in ports.ListInput) (listing.Page[*domain.Supplier], error) {
			t.Fatalf("should not be called")
			return listing.Page[*domain.Supplier]{}, nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	for _, q := range []string{"page=0", "page=-1", "page_size=abc"} {
		c, _ := newJSONContext(http.MethodGet, "/v1/suppliers?"+q, "")
		err := h.List(c)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", q, err)
		}
	}
}

func TestResourceHandler_Get_SetsETag(t *testing.T) {
	stub := &stubResourceService{
		getFn: func(ctx context.Context, id string) (*ports.RecordDetail[*domain.Supplier], error) {
			if id != "s1" {
				return nil, domain.ErrNotFound
			}
			return &ports.RecordDetail[*domain.Supplier]{Record: supplier("s1", 3)}, nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	rec := serve(h, http.MethodGet, "/v1/suppliers/s1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(HeaderETag); got != `"3"` {
		t.Fatalf("expected ETag \"3\", got %q", got)
	}
}

func TestResourceHandler_Create(t *testing.T) {
	var got ports.CreateInput[*domain.Supplier]
	stub := &stubResourceService{
		createFn: func(ctx context.Context, in ports.CreateInput[*domain.Supplier]) (*ports.CreateResult[*domain.Supplier], error) {
			got = in
			return &ports.CreateResult[*domain.Supplier]{Record: supplier("s9", 1)}, nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	rec := serve(h, http.MethodPost, "/v1/suppliers", `{"name":"Acme","category":"electrical"}`,
		map[string]string{HeaderIdempotencyKey: "  key-1 "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.IdempotencyKey != "key-1" || got.Actor != "alice" || got.Record.Name != "Acme" {
		t.Fatalf("unexpected create input: %+v", got)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/v1/suppliers/s9" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if rec.Header().Get(HeaderIdempotentReplayed) != "" {
		t.Fatalf("fresh create must not be marked as replay")
	}
}

func TestResourceHandler_Create_Replay(t *testing.T) {
	stub := &stubResourceService{
		createFn: func(ctx context.Context, in ports.CreateInput[*domain.Supplier]) (*ports.CreateResult[*domain.Supplier], error) {
			return &ports.CreateResult[*domain.Supplier]{Record: supplier("s9", 2), Replayed: true}, nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	rec := serve(h, http.MethodPost, "/v1/suppliers", `{"name":"Acme"}`, map[string]string{HeaderIdempotencyKey: "key-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(HeaderIdempotentReplayed) != "true" {
		t.Fatalf("expected replay header")
	}
	if rec.Header().Get(HeaderETag) != `"2"` {
		t.Fatalf("expected current version in ETag, got %q", rec.Header().Get(HeaderETag))
	}
}

func TestResourceHandler_Update_IfMatch(t *testing.T) {
	var got ports.UpdateInput[*domain.Supplier]
	stub := &stubResourceService{
		updateFn: func(ctx context.Context, in ports.UpdateInput[*domain.Supplier]) (*domain.Supplier, error) {
			got = in
			return supplier(in.ID, 5), nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	for header, want := range map[string]int64{`"4"`: 4, `W/"4"`: 4, "4": 4, "": 0, "*": 0} {
		rec := serve(h, http.MethodPut, "/v1/suppliers/s1", `{"name":"Acme"}`, map[string]string{HeaderIfMatch: header})
		if rec.Code != http.StatusOK {
			t.Fatalf("If-Match %q: expected 200, got %d", header, rec.Code)
		}
		if got.ExpectedVersion != want || got.ID != "s1" {
			t.Fatalf("If-Match %q: unexpected input %+v", header, got)
		}
		if rec.Header().Get(HeaderETag) != `"5"` {
			t.Fatalf("If-Match %q: unexpected ETag %q", header, rec.Header().Get(HeaderETag))
		}
	}

	rec := serve(h, http.MethodPut, "/v1/suppliers/s1", `{"name":"Acme"}`, map[string]string{HeaderIfMatch: "v4"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed If-Match: expected 400, got %d", rec.Code)
	}
}

func TestResourceHandler_Delete(t *testing.T) {
	stub := &stubResourceService{
		deleteFn: func(ctx context.Context, in ports.DeleteInput) error {
			if in.ID != "s1" || in.Actor != "alice" {
				t.Fatalf("unexpected delete input: %+v", in)
			}
			return nil
		},
	}
	h := NewResourceHandler(catalog.Suppliers, stub)

	if rec := serve(h, http.MethodDelete, "/v1/suppliers/s1", "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestReadOnlyHandler_MountsReadRoutesOnly(t *testing.T) {
	stub := &stubResourceService{
		listFn: func(ctx context.Context, in ports.ListInput) (listing.Page[*domain.Supplier], error) {
			return listing.Page[*domain.Supplier]{Items: []*domain.Supplier{}}, nil
		},
		createFn: func(ctx context.Context, in ports.CreateInput[*domain.Supplier]) (*ports.CreateResult[*domain.Supplier], error) {
			t.Fatalf("create must not be routed")
			return nil, nil
		},
	}
	h := NewReadOnlyHandler(catalog.Suppliers, stub)

	if rec := serve(h, http.MethodGet, "/v1/suppliers", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/v1/suppliers", `{}`, nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("create: expected 405, got %d", rec.Code)
	}
}
