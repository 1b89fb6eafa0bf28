package queries_test

import (
	"testing"

	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetDataSourcesQuery(t *testing.T) {
	t.Run("keeps bindings in order", func(t *testing.T) {
		tables := []queries.DataSourceTable{
			{DataSource: bookstore.PersonDataSource, Table: "bookstore_person"},
			{DataSource: bookstore.BookDataSource, Table: "bookstore_book"},
		}

		query, err := queries.NewGetDataSourcesQuery(tables)

		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.Equal(t, tables, query.Tables())
	})

	t.Run("empty list is allowed", func(t *testing.T) {
		query, err := queries.NewGetDataSourcesQuery(nil)

		require.NoError(t, err)
		assert.Empty(t, query.Tables())
	})

	t.Run("rejects missing table and invalid data source", func(t *testing.T) {
		_, err := queries.NewGetDataSourcesQuery([]queries.DataSourceTable{
			{DataSource: kernel.DataSource{}, Table: "x"},
			{DataSource: bookstore.BookDataSource, Table: " "},
		})

		require.ErrorIs(t, err, kernel.ErrDataSourceIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var query queries.GetDataSourcesQuery

		require.ErrorIs(t, query.Validate(), queries.ErrGetDataSourcesQueryIsNotConstructed)
	})
}
