package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/shopspring/decimal"
)

// EntityCodec converts the records of one data source between their REST JSON
// shape and domain entities.
type EntityCodec interface {
	DataSource() kernel.DataSource
	// Schema is the JSON schema of one record, published in the OpenAPI document.
	Schema() *openapi3.Schema
	Encode(e kernel.Entity) (any, error)
	// Decode builds an entity from a request body. A non-nil id replaces the
	// identifier in the body; without either a new identifier is generated.
	Decode(body []byte, id *kernel.UUID) (kernel.Entity, error)
}

// Codecs is the set of data sources published over REST, in registration order.
type Codecs struct {
	ordered []EntityCodec
	byName  map[string]EntityCodec
}

func NewCodecs(codecs ...EntityCodec) (*Codecs, error) {
	c := &Codecs{byName: make(map[string]EntityCodec, len(codecs))}
	for _, codec := range codecs {
		name := codec.DataSource().String()
		if _, dup := c.byName[name]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("codecs", fmt.Errorf("%s is registered twice", name))
		}
		c.byName[name] = codec
		c.ordered = append(c.ordered, codec)
	}
	return c, nil
}

// BookstoreCodecs publishes Bookstore.Book and Bookstore.Person.
func BookstoreCodecs() *Codecs {
	c, err := NewCodecs(BookCodec{}, PersonCodec{})
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codecs) Lookup(ds kernel.DataSource) (EntityCodec, bool) {
	codec, ok := c.byName[ds.String()]
	return codec, ok
}

func (c *Codecs) All() []EntityCodec {
	return append([]EntityCodec(nil), c.ordered...)
}

// BookJSON is the REST shape of Bookstore.Book.
type BookJSON struct {
	ID            *kernel.UUID    `json:"ID,omitempty"`
	Code          string          `json:"Code"`
	Title         string          `json:"Title"`
	NumberOfPages int             `json:"NumberOfPages"`
	Price         decimal.Decimal `json:"Price"`
	AuthorID      *kernel.UUID    `json:"AuthorID"`
}

type BookCodec struct{}

func (BookCodec) DataSource() kernel.DataSource {
	return bookstore.BookDataSource
}

func (BookCodec) Schema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("ID", openapi3.NewUUIDSchema()).
		WithProperty("Code", openapi3.NewStringSchema().WithMaxLength(bookstore.MaxCodeLength)).
		WithProperty("Title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(bookstore.MaxTitleLength)).
		WithProperty("NumberOfPages", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("Price", openapi3.NewStringSchema().WithPattern(`^\d+(\.\d+)?$`)).
		WithProperty("AuthorID", openapi3.NewUUIDSchema().WithNullable()).
		WithRequired([]string{"Title"})
}

func (BookCodec) Encode(e kernel.Entity) (any, error) {
	book, ok := e.(*bookstore.Book)
	if !ok {
		return nil, unexpectedEntity(bookstore.BookDataSource, e)
	}
	id := book.ID()
	return BookJSON{
		ID:            &id,
		Code:          book.Code(),
		Title:         book.Title(),
		NumberOfPages: book.NumberOfPages(),
		Price:         book.Price(),
		AuthorID:      book.AuthorID(),
	}, nil
}

func (BookCodec) Decode(body []byte, id *kernel.UUID) (kernel.Entity, error) {
	var in BookJSON
	if err := decodeStrict(body, &in); err != nil {
		return nil, err
	}
	book, err := bookstore.RestoreBook(pickID(id, in.ID), in.Code, in.Title, in.NumberOfPages, in.Price, in.AuthorID)
	if err != nil {
		return nil, validationError("invalid Bookstore.Book", err)
	}
	return book, nil
}

// PersonJSON is the REST shape of Bookstore.Person.
type PersonJSON struct {
	ID   *kernel.UUID `json:"ID,omitempty"`
	Name string       `json:"Name"`
}

type PersonCodec struct{}

func (PersonCodec) DataSource() kernel.DataSource {
	return bookstore.PersonDataSource
}

func (PersonCodec) Schema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("ID", openapi3.NewUUIDSchema()).
		WithProperty("Name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(bookstore.MaxNameLength)).
		WithRequired([]string{"Name"})
}

func (PersonCodec) Encode(e kernel.Entity) (any, error) {
	person, ok := e.(*bookstore.Person)
	if !ok {
		return nil, unexpectedEntity(bookstore.PersonDataSource, e)
	}
	id := person.ID()
	return PersonJSON{ID: &id, Name: person.Name()}, nil
}

func (PersonCodec) Decode(body []byte, id *kernel.UUID) (kernel.Entity, error) {
	var in PersonJSON
	if err := decodeStrict(body, &in); err != nil {
		return nil, err
	}
	person, err := bookstore.RestorePerson(pickID(id, in.ID), in.Name)
	if err != nil {
		return nil, validationError("invalid Bookstore.Person", err)
	}
	return person, nil
}

func pickID(fromRoute, fromBody *kernel.UUID) kernel.UUID {
	switch {
	case fromRoute != nil:
		return *fromRoute
	case fromBody != nil:
		return *fromBody
	default:
		return kernel.NewUUID()
	}
}

func decodeStrict(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validationError(fmt.Sprintf("request body is not valid JSON for this data source: %v", err), err)
	}
	return nil
}

func unexpectedEntity(ds kernel.DataSource, e kernel.Entity) error {
	return errs.NewCommandError(errs.KindInfrastructure,
		fmt.Sprintf("%s codec cannot encode %T", ds, e))
}
