package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListParams are the query parameters of a collection read.
type ListParams struct {
	Filters *string `json:"filters,omitempty"`
	Sort    *string `json:"sort,omitempty"`
	Skip    *int    `json:"skip,omitempty"`
	Top     *int    `json:"top,omitempty"`
	Count   *bool   `json:"count,omitempty"`
}

// ListResponse is the body of a collection read. TotalCount is present only
// when the request asked for it.
type ListResponse struct {
	Records    []any  `json:"Records"`
	TotalCount *int64 `json:"TotalCount,omitempty"`
}

type TotalCountResponse struct {
	TotalCount int64 `json:"TotalCount"`
}

type InsertResponse struct {
	ID kernel.UUID `json:"ID"`
}

// RestController publishes CRUD routes for every registered codec, under
// /{Module}/{Entity}/ of the group it is registered on.
type RestController struct {
	engine CommandExecutor
	codecs *Codecs
}

func NewRestController(engine CommandExecutor, codecs *Codecs) *RestController {
	return &RestController{engine: engine, codecs: codecs}
}

func (r *RestController) Register(g *echo.Group) {
	for _, codec := range r.codecs.All() {
		ds := codec.DataSource()
		h := restHandlers{engine: r.engine, codec: codec}
		base := fmt.Sprintf("/%s/%s", ds.Module(), ds.Entity())

		g.GET(base+"/", h.list)
		g.GET(base+"/TotalCount", h.totalCount)
		g.GET(base+"/:id", h.get)
		g.POST(base+"/", h.insert)
		g.PUT(base+"/:id", h.update)
		g.DELETE(base+"/:id", h.delete)
	}
}

type restHandlers struct {
	engine CommandExecutor
	codec  EntityCodec
}

func (h restHandlers) list(c echo.Context) error {
	params, err := bindListParams(c)
	if err != nil {
		return err
	}
	opts, err := readOptions(params)
	if err != nil {
		return err
	}

	read, err := h.read(c, opts...)
	if err != nil {
		return err
	}

	resp := ListResponse{Records: make([]any, 0, len(read.Records)), TotalCount: read.TotalCount}
	for _, e := range read.Records {
		encoded, err := h.codec.Encode(e)
		if err != nil {
			return err
		}
		resp.Records = append(resp.Records, encoded)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h restHandlers) totalCount(c echo.Context) error {
	params, err := bindListParams(c)
	if err != nil {
		return err
	}
	filters, err := parseFilters(params.Filters)
	if err != nil {
		return err
	}

	read, err := h.read(c, commands.WithFilter(filters...), commands.WithoutRecords())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TotalCountResponse{TotalCount: *read.TotalCount})
}

func (h restHandlers) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entity, err := h.readOne(c, id)
	if err != nil {
		return err
	}
	encoded, err := h.codec.Encode(entity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, encoded)
}

func (h restHandlers) insert(c echo.Context) error {
	entity, err := h.decodeBody(c, nil)
	if err != nil {
		return err
	}
	if err := h.save(c, commands.Insert(entity)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, InsertResponse{ID: entity.ID()})
}

func (h restHandlers) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entity, err := h.decodeBody(c, &id)
	if err != nil {
		return err
	}
	if err := h.save(c, commands.Update(entity)); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// delete loads the record first so a missing id is reported as not found
// before anything is written.
func (h restHandlers) delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entity, err := h.readOne(c, id)
	if err != nil {
		return err
	}
	if err := h.save(c, commands.Delete(entity)); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h restHandlers) read(c echo.Context, opts ...commands.ReadOption) (commands.ReadResult, error) {
	uow, err := UnitOfWorkFrom(c)
	if err != nil {
		return commands.ReadResult{}, err
	}
	cmd, err := commands.NewReadCommand(h.codec.DataSource(), opts...)
	if err != nil {
		return commands.ReadResult{}, validationError(err.Error(), err)
	}

	results, err := h.engine.Execute(c.Request().Context(), uow, cmd)
	if err != nil {
		return commands.ReadResult{}, err
	}
	return *results[0].Read, nil
}

func (h restHandlers) readOne(c echo.Context, id kernel.UUID) (kernel.Entity, error) {
	read, err := h.read(c, commands.WithFilter(ports.Filter{
		Property:  "ID",
		Operation: ports.OpEqual,
		Value:     id.String(),
	}))
	if err != nil {
		return nil, err
	}
	if len(read.Records) == 0 {
		ds := h.codec.DataSource().String()
		return nil, errs.NewCommandErrorWithCause(errs.KindNotFound,
			fmt.Sprintf("record %s does not exist", id),
			errs.NewObjectNotFoundError(ds, id.String())).WithDataSource(ds)
	}
	return read.Records[0], nil
}

// save runs one save command and commits the request's unit of work.
func (h restHandlers) save(c echo.Context, opt commands.SaveOption) error {
	uow, err := UnitOfWorkFrom(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSaveCommand(h.codec.DataSource(), opt)
	if err != nil {
		return validationError(err.Error(), err)
	}

	ctx := c.Request().Context()
	if _, err := h.engine.Execute(ctx, uow, cmd); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h restHandlers) decodeBody(c echo.Context, id *kernel.UUID) (kernel.Entity, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, validationError("reading request body", err)
	}
	return h.codec.Decode(body, id)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, validationError(fmt.Sprintf("invalid record id %q", c.Param("id")), err)
	}
	return id, nil
}

func bindListParams(c echo.Context) (ListParams, error) {
	var params ListParams
	query := c.QueryParams()
	for name, dest := range map[string]any{
		"filters": &params.Filters,
		"sort":    &params.Sort,
		"skip":    &params.Skip,
		"top":     &params.Top,
		"count":   &params.Count,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			return ListParams{}, validationError(fmt.Sprintf("invalid query parameter %q", name), err)
		}
	}
	return params, nil
}

func readOptions(params ListParams) ([]commands.ReadOption, error) {
	filters, err := parseFilters(params.Filters)
	if err != nil {
		return nil, err
	}
	orderBy, err := parseSort(params.Sort)
	if err != nil {
		return nil, err
	}

	opts := []commands.ReadOption{
		commands.WithFilter(filters...),
		commands.WithOrderBy(orderBy...),
	}
	if params.Skip != nil || params.Top != nil {
		opts = append(opts, commands.WithPaging(deref(params.Skip), deref(params.Top)))
	}
	if params.Count != nil && *params.Count {
		opts = append(opts, commands.WithTotalCount())
	}
	return opts, nil
}

// parseFilters decodes the JSON array given in the filters parameter.
func parseFilters(raw *string) ([]ports.Filter, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var filters []ports.Filter
	if err := json.Unmarshal([]byte(*raw), &filters); err != nil {
		return nil, validationError("filters must be a JSON array of {Property, Operation, Value}", err)
	}
	return filters, nil
}

// parseSort reads "Title desc,Code" into ordering terms.
func parseSort(raw *string) ([]ports.OrderBy, error) {
	if raw == nil {
		return nil, nil
	}
	var orderBy []ports.OrderBy
	for _, term := range strings.Split(*raw, ",") {
		fields := strings.Fields(term)
		switch {
		case len(fields) == 0:
			continue
		case len(fields) == 1:
			orderBy = append(orderBy, ports.OrderBy{Property: fields[0]})
		case len(fields) == 2 && strings.EqualFold(fields[1], "desc"):
			orderBy = append(orderBy, ports.OrderBy{Property: fields[0], Descending: true})
		case len(fields) == 2 && strings.EqualFold(fields[1], "asc"):
			orderBy = append(orderBy, ports.OrderBy{Property: fields[0]})
		default:
			return nil, errs.NewCommandError(errs.KindValidationFailed, fmt.Sprintf("invalid sort term %q", term))
		}
	}
	return orderBy, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
