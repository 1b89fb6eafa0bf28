// Package openapi builds the OpenAPI 3 description of the REST API from the
// data sources the host exposes. Schema ids are full data source names, so
// entities with the same name in different modules do not collide.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"sync"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
)

const errorSchemaID = "Error"

// Resource is one data source published over REST with the JSON schema of
// its records.
type Resource struct {
	DataSource kernel.DataSource
	Schema     *openapi3.Schema
}

// Info names the document.
type Info struct {
	Title   string
	Version string
}

// Document is a validated OpenAPI description. It satisfies swag.Swagger, so
// it can be registered for the Swagger UI.
type Document struct {
	spec *openapi3.T

	once sync.Once
	raw  []byte
	err  error
}

// NewDocument describes the REST routes of every resource under baseRoute and
// validates the result.
//
// Example:
//
//	doc, err := openapi.NewDocument(openapi.Info{Title: "bookstore", Version: "v1"}, "/rest",
//	    openapi.Resource{DataSource: bookstore.BookDataSource, Schema: bookSchema})
func NewDocument(info Info, baseRoute string, resources ...Resource) (*Document, error) {
	if info.Title == "" || info.Version == "" {
		return nil, errs.NewValueIsRequiredError("document title and version")
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				errorSchemaID: openapi3.NewSchemaRef("", sharedErrorSchema),
			},
		},
	}

	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		if err := r.DataSource.Validate(); err != nil {
			return nil, err
		}
		if r.Schema == nil {
			return nil, errs.NewValueIsRequiredError(fmt.Sprintf("schema of %s", r.DataSource))
		}
		id := r.DataSource.String()
		if _, dup := seen[id]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("resources", fmt.Errorf("%s is listed twice", id))
		}
		seen[id] = struct{}{}

		spec.Components.Schemas[id] = openapi3.NewSchemaRef("", r.Schema)
		addResourcePaths(spec, baseRoute, r.DataSource)
	}

	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return &Document{spec: spec}, nil
}

// Spec returns the underlying document.
func (d *Document) Spec() *openapi3.T {
	return d.spec
}

// JSON returns the serialized document. It is computed once.
func (d *Document) JSON() ([]byte, error) {
	d.once.Do(func() {
		d.raw, d.err = json.Marshal(d.spec)
	})
	return d.raw, d.err
}

// ReadDoc implements swag.Swagger.
func (d *Document) ReadDoc() string {
	raw, err := d.JSON()
	if err != nil {
		return ""
	}
	return string(raw)
}

// CollectionPath is the route of a data source's records,
// for example /rest/Bookstore/Book/.
func CollectionPath(baseRoute string, ds kernel.DataSource) string {
	return path.Join("/", baseRoute, ds.Module(), ds.Entity()) + "/"
}

func addResourcePaths(spec *openapi3.T, baseRoute string, ds kernel.DataSource) {
	paths := spec.Paths
	name := ds.String()
	collection := CollectionPath(baseRoute, ds)
	record := openapi3.NewSchemaRef(schemaRef(name), spec.Components.Schemas[name].Value)
	idParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").
		WithSchema(openapi3.NewUUIDSchema())}

	paths.Set(collection, &openapi3.PathItem{
		Get: operation(name, "List", "Reads records of "+name,
			withParameters(listParameters()...),
			withResponse(http.StatusOK, "Records", listSchema(record))),
		Post: operation(name, "Insert", "Inserts one "+name+" record",
			withBody(record),
			withResponse(http.StatusOK, "Identifier of the inserted record", idSchema())),
	})

	paths.Set(collection+"TotalCount", &openapi3.PathItem{
		Get: operation(name, "TotalCount", "Counts records of "+name,
			withParameters(filterParameter()),
			withResponse(http.StatusOK, "Record count", totalCountSchema())),
	})

	paths.Set(collection+"{id}", &openapi3.PathItem{
		Get: operation(name, "Get", "Reads one "+name+" record",
			withParameters(idParam),
			withResponse(http.StatusOK, "Record", record),
			withResponse(http.StatusNotFound, "Record not found", errorRef())),
		Put: operation(name, "Update", "Updates one "+name+" record",
			withParameters(idParam),
			withBody(record),
			withResponse(http.StatusOK, "Updated", nil),
			withResponse(http.StatusNotFound, "Record not found", errorRef())),
		Delete: operation(name, "Delete", "Deletes one "+name+" record",
			withParameters(idParam),
			withResponse(http.StatusOK, "Deleted", nil),
			withResponse(http.StatusNotFound, "Record not found", errorRef())),
	})
}

type operationOption func(*openapi3.Operation)

func operation(tag, action, summary string, opts ...operationOption) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = tag + "." + action
	op.Summary = summary
	op.Tags = []string{tag}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusBadRequest, response("Invalid request", errorRef())),
		openapi3.WithStatus(http.StatusUnauthorized, response("No signed in user", errorRef())),
		openapi3.WithStatus(http.StatusInternalServerError, response("Server error", errorRef())),
	)
	for _, opt := range opts {
		opt(op)
	}
	return op
}

func withParameters(params ...*openapi3.ParameterRef) operationOption {
	return func(op *openapi3.Operation) {
		op.Parameters = append(op.Parameters, params...)
	}
}

func withBody(schema *openapi3.SchemaRef) operationOption {
	return func(op *openapi3.Operation) {
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(schema)}
	}
}

func withResponse(status int, description string, schema *openapi3.SchemaRef) operationOption {
	return func(op *openapi3.Operation) {
		op.Responses.Set(fmt.Sprint(status), response(description, schema))
	}
}

func response(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	r := openapi3.NewResponse().WithDescription(description)
	if schema != nil {
		r = r.WithJSONSchemaRef(schema)
	}
	return &openapi3.ResponseRef{Value: r}
}

func listParameters() openapi3.Parameters {
	return openapi3.Parameters{
		filterParameter(),
		query("sort", "Comma separated properties, each optionally followed by \"desc\"", openapi3.NewStringSchema()),
		query("skip", "Records to skip", openapi3.NewIntegerSchema().WithMin(0)),
		query("top", "Maximum number of records", openapi3.NewIntegerSchema().WithMin(0)),
		query("count", "Also return the total count", openapi3.NewBoolSchema()),
	}
}

func filterParameter() *openapi3.ParameterRef {
	return query("filters",
		`JSON array of {"Property","Operation","Value"}`,
		openapi3.NewStringSchema())
}

func query(name, description string, schema *openapi3.Schema) *openapi3.ParameterRef {
	p := openapi3.NewQueryParameter(name).WithSchema(schema).WithDescription(description)
	return &openapi3.ParameterRef{Value: p}
}

func listSchema(record *openapi3.SchemaRef) *openapi3.SchemaRef {
	records := openapi3.NewArraySchema()
	records.Items = record
	schema := openapi3.NewObjectSchema().
		WithProperty("Records", records).
		WithProperty("TotalCount", openapi3.NewInt64Schema())
	return openapi3.NewSchemaRef("", schema)
}

func idSchema() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", openapi3.NewObjectSchema().WithProperty("ID", openapi3.NewUUIDSchema()))
}

func totalCountSchema() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", openapi3.NewObjectSchema().WithProperty("TotalCount", openapi3.NewInt64Schema()))
}

// Refs carry their resolved value so the document validates without a loader.
func schemaRef(id string) string {
	return "#/components/schemas/" + id
}

var sharedErrorSchema = errorSchema()

func errorRef() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(schemaRef(errorSchemaID), sharedErrorSchema)
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewIntegerSchema()).
		WithProperty("kind", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
}
