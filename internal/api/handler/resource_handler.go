package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
	"github.com/fieldworks/backoffice/internal/core/ports"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
	HeaderETag               = "ETag"
	HeaderIfMatch            = "If-Match"
)

// Mounter registers a resource's routes on a group. read guards GET routes,
// write guards mutations.
type Mounter interface {
	Mount(g *echo.Group, read, write echo.MiddlewareFunc)
}

// ResourceHandler serves the REST surface of one list resource.
type ResourceHandler[T domain.Record] struct {
	schema   listing.Schema[T]
	service  ports.ResourceService[T]
	readOnly bool
}

func NewResourceHandler[T domain.Record](schema listing.Schema[T], service ports.ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{schema: schema, service: service}
}

// NewReadOnlyHandler serves only the list and get routes.
func NewReadOnlyHandler[T domain.Record](schema listing.Schema[T], service ports.ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{schema: schema, service: service, readOnly: true}
}

func (h *ResourceHandler[T]) Mount(g *echo.Group, read, write echo.MiddlewareFunc) {
	base := "/" + h.schema.Resource
	g.GET(base, h.List, read)
	g.GET(base+"/:id", h.Get, read)
	if h.readOnly {
		return
	}
	g.POST(base, h.Create, write)
	g.PUT(base+"/:id", h.Update, write)
	g.DELETE(base+"/:id", h.Delete, write)
}

// List handles GET /v1/{resource}.
//
// @Summary      List records
// @Description  Case-insensitive substring search over the resource's search fields, exact-match
// @Description  filters (filter[name]=value or name=value, "all" disables a filter) and pagination.
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource   path      string  true   "Resource name (e.g. jobs)"
// @Param        search     query     string  false  "Search text"
// @Param        page       query     int     false  "1-based page number"  default(1)
// @Param        page_size  query     int     false  "Page size (max 100)"  default(10)
// @Success      200        {object}  listResponse[any]
// @Failure      401        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/{resource} [get]
func (h *ResourceHandler[T]) List(c echo.Context) error {
	in, err := h.listInput(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse[T]{
		Data: page.Items,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /v1/{resource}/{id}.
//
// @Summary      Get a record with its references
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Resource name"
// @Param        id        path      string  true  "Record id"
// @Success      200       {object}  recordResponse[any]
// @Failure      404       {object}  errorResponse
// @Router       /v1/{resource}/{id} [get]
func (h *ResourceHandler[T]) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	setETag(c, detail.Record.Base().Version)
	return c.JSON(http.StatusOK, recordResponse[T]{Data: detail.Record, References: detail.References})
}

// Create handles POST /v1/{resource}.
//
// @Summary      Create a record
// @Description  Identity fields in the body are ignored. With an Idempotency-Key header a retry
// @Description  returns the original record with status 200 and Idempotent-Replayed: true.
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource         path      string  true   "Resource name"
// @Param        Idempotency-Key  header    string  false  "Client-chosen retry key"
// @Success      201              {object}  recordResponse[any]
// @Success      200              {object}  recordResponse[any]
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/{resource} [post]
func (h *ResourceHandler[T]) Create(c echo.Context) error {
	rec := h.schema.New()
	if err := c.Bind(rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.service.Create(c.Request().Context(), ports.CreateInput[T]{
		Record:         rec,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
		Actor:          actor(c),
	})
	if err != nil {
		return err
	}

	m := res.Record.Base()
	setETag(c, m.Version)
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
	} else {
		c.Response().Header().Set(echo.HeaderLocation, c.Path()+"/"+m.ID)
	}
	return c.JSON(status, recordResponse[T]{Data: res.Record})
}

// Update handles PUT /v1/{resource}/{id}.
//
// @Summary      Replace a record's fields
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true   "Resource name"
// @Param        id        path      string  true   "Record id"
// @Param        If-Match  header    string  false  "Expected version, as returned in ETag"
// @Success      200       {object}  recordResponse[any]
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/{resource}/{id} [put]
func (h *ResourceHandler[T]) Update(c echo.Context) error {
	expected, err := parseIfMatch(c.Request().Header.Get(HeaderIfMatch))
	if err != nil {
		return err
	}

	rec := h.schema.New()
	if err := c.Bind(rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), ports.UpdateInput[T]{
		ID:              c.Param("id"),
		Record:          rec,
		ExpectedVersion: expected,
		Actor:           actor(c),
	})
	if err != nil {
		return err
	}

	setETag(c, updated.Base().Version)
	return c.JSON(http.StatusOK, recordResponse[T]{Data: updated})
}

// Delete handles DELETE /v1/{resource}/{id}.
//
// @Summary      Delete a record
// @Tags         resources
// @Security     BearerAuth
// @Param        resource  path  string  true  "Resource name"
// @Param        id        path  string  true  "Record id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/{resource}/{id} [delete]
func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), ports.DeleteInput{
		ID:    c.Param("id"),
		Actor: actor(c),
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// listInput reads search, filters and paging from the query string. Filters
// come as filter[name]=value or, for declared dimensions, as name=value.
// Other unknown bare parameters are ignored.
func (h *ResourceHandler[T]) listInput(c echo.Context) (ports.ListInput, error) {
	params := c.QueryParams()
	in := ports.ListInput{
		Search:  params.Get("search"),
		Filters: make(map[string]string),
	}

	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "search", "page", "page_size":
			continue
		}
		if name, ok := strings.CutPrefix(key, "filter["); ok && strings.HasSuffix(name, "]") {
			in.Filters[strings.TrimSuffix(name, "]")] = values[0]
			continue
		}
		if _, ok := h.schema.Filters[key]; ok {
			if _, explicit := in.Filters[key]; !explicit {
				in.Filters[key] = values[0]
			}
		}
	}

	var err error
	if in.Page, err = positiveInt(params.Get("page"), "page"); err != nil {
		return in, err
	}
	if in.PageSize, err = positiveInt(params.Get("page_size"), "page_size"); err != nil {
		return in, err
	}
	return in, nil
}

// positiveInt parses an optional query integer; empty yields 0.
func positiveInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.NewValidationError(field, "gte", field+" must be a positive integer")
	}
	return n, nil
}

// parseIfMatch accepts `"3"`, `W/"3"` or `3`; an empty header means no precondition.
func parseIfMatch(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return 0, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid If-Match header")
	}
	return v, nil
}

func setETag(c echo.Context, version int64) {
	c.Response().Header().Set(HeaderETag, strconv.Quote(strconv.FormatInt(version, 10)))
}
