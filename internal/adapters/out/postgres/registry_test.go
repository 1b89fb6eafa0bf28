package postgres_test

import (
	"testing"

	postgres_adapter "bookstore/internal/adapters/out/postgres"
	"bookstore/internal/adapters/out/postgres/bookrepo"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBookRepository(db *gorm.DB) ports.EntityRepository {
	return bookrepo.NewGormBookRepository(db)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	reg := postgres_adapter.Registration{DataSource: bookstore.BookDataSource, Table: "books", New: newBookRepository}

	_, err := postgres_adapter.NewRegistry(reg, reg)
	require.Error(t, err)
}

func TestNewRegistry_RejectsIncompleteRegistration(t *testing.T) {
	_, err := postgres_adapter.NewRegistry(postgres_adapter.Registration{DataSource: bookstore.BookDataSource})
	require.Error(t, err)

	_, err = postgres_adapter.NewRegistry(postgres_adapter.Registration{Table: "books", New: newBookRepository})
	require.ErrorIs(t, err, kernel.ErrDataSourceIsNotConstructed)
}

func TestBookstoreRegistry(t *testing.T) {
	registry := postgres_adapter.BookstoreRegistry()

	reg, ok := registry.Lookup(kernel.MustParseDataSource("Bookstore.Book"))
	require.True(t, ok)
	assert.Equal(t, "bookstore_book", reg.Table)

	_, ok = registry.Lookup(kernel.MustParseDataSource("Other.Book"))
	assert.False(t, ok)

	assert.Len(t, registry.Registrations(), 2)
}
