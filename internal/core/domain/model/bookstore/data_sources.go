package bookstore

import "bookstore/internal/core/domain/model/kernel"

var (
	// BookDataSource is the data source name commands use to address books.
	BookDataSource = kernel.MustParseDataSource("Bookstore.Book")

	// PersonDataSource is the data source name commands use to address people.
	PersonDataSource = kernel.MustParseDataSource("Bookstore.Person")
)

const (
	MaxTitleLength = 256
	MaxNameLength  = 256
	MaxCodeLength  = 10
)
