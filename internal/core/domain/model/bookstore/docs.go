// Package bookstore provides the entities of the "Bookstore" module: books and
// the people who write them. Each entity is exposed to commands as a data source
// named "Bookstore.<Entity>".
//
// The package includes:
//   - Book: a title with optional code, page count, price and author
//   - Person: an author referenced by books
//
// Key business rules:
//   - Every entity has a valid identifier generated at construction
//   - Book titles and person names are required and at most 256 characters
//   - Book codes are optional and at most 10 characters
//   - Page counts and prices are never negative
//
// Entities are created with New* constructors, rebuilt from storage with
// Restore*, and changed only through methods that keep these rules.
package bookstore
