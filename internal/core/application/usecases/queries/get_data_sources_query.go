// Package queries contains read operations that report on the state of the
// host rather than on individual entities. They return read models shaped for
// a specific screen and bypass the processing engine.
package queries

import (
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var (
	ErrGetDataSourcesQueryIsNotConstructed = errors.New(
		"GetDataSourcesQuery must be created via NewGetDataSourcesQuery constructor",
	)
)

// DataSourceTable binds a data source to the table that stores its records.
type DataSourceTable struct {
	DataSource kernel.DataSource
	Table      string
}

// GetDataSourcesQuery lists the registered data sources together with the
// exact number of stored records in each one.
//
// Example:
//
//	query, err := NewGetDataSourcesQuery([]DataSourceTable{
//	    {DataSource: bookstore.BookDataSource, Table: "bookstore_book"},
//	})
//	if err != nil {
//	    return err
//	}
//	rows, err := NewGetDataSourcesQueryHandler(db).Handle(ctx, query)
type GetDataSourcesQuery struct {
	tables []DataSourceTable
	guard  guard.ConstructorGuard
}

// NewGetDataSourcesQuery validates every binding. Results keep the given order.
func NewGetDataSourcesQuery(tables []DataSourceTable) (GetDataSourcesQuery, error) {
	var errList []error
	for i, t := range tables {
		if err := t.DataSource.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("data source #%d: %w", i, err))
		}
		if strings.TrimSpace(t.Table) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("table of data source #%d", i)))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return GetDataSourcesQuery{}, err
	}

	return GetDataSourcesQuery{
		tables: append([]DataSourceTable(nil), tables...),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetDataSourcesQuery) Tables() []DataSourceTable {
	return append([]DataSourceTable(nil), q.tables...)
}

// Validate ensures the query was created through the constructor.
func (q GetDataSourcesQuery) Validate() error {
	return q.guard.Validate(ErrGetDataSourcesQueryIsNotConstructed)
}

// GetDataSourcesQueryResponse is one row of the dashboard.
type GetDataSourcesQueryResponse struct {
	DataSource  string
	Table       string
	RecordCount int64
}
