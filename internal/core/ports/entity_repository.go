package ports

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
)

// EntityRepository stores the entities of one data source. Every instance is
// bound to the unit of work that created it, so writes stay pending until that
// unit of work commits.
//
// Errors follow the errs kinds: an unknown property in a filter or a foreign
// entity type is a validation failure, updating or deleting a missing record is
// not-found, a unique or foreign key violation is a conflict.
type EntityRepository interface {
	// DataSource returns the data source this repository serves.
	DataSource() kernel.DataSource

	// Read returns the entities matching params, in the requested order.
	Read(ctx context.Context, params ReadParameters) ([]kernel.Entity, error)

	// Count returns how many entities match filters, ignoring paging.
	Count(ctx context.Context, filters []Filter) (int64, error)

	// Insert stores new entities.
	Insert(ctx context.Context, entities []kernel.Entity) error

	// Update overwrites existing entities, matched by identifier.
	Update(ctx context.Context, entities []kernel.Entity) error

	// Delete removes existing entities, matched by identifier.
	Delete(ctx context.Context, entities []kernel.Entity) error
}
