package postgres

import (
	"fmt"

	"bookstore/internal/adapters/out/postgres/bookrepo"
	"bookstore/internal/adapters/out/postgres/personrepo"
	"bookstore/internal/core/domain/model/bookstore"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"gorm.io/gorm"
)

// RepositoryConstructor binds the repository of one data source to db.
type RepositoryConstructor func(db *gorm.DB) ports.EntityRepository

// Registration describes how one data source is stored.
type Registration struct {
	DataSource kernel.DataSource
	Table      string
	New        RepositoryConstructor
}

// Registry resolves data source names to repositories. It is built once at
// start-up and only read afterwards.
type Registry struct {
	entries map[string]Registration
	order   []Registration
}

func NewRegistry(regs ...Registration) (*Registry, error) {
	r := &Registry{entries: make(map[string]Registration, len(regs))}
	for _, reg := range regs {
		if err := reg.DataSource.Validate(); err != nil {
			return nil, err
		}
		if reg.New == nil || reg.Table == "" {
			return nil, fmt.Errorf("data source %s: table and repository constructor are required", reg.DataSource)
		}
		key := reg.DataSource.String()
		if _, ok := r.entries[key]; ok {
			return nil, fmt.Errorf("data source %s is registered twice", key)
		}
		r.entries[key] = reg
		r.order = append(r.order, reg)
	}
	return r, nil
}

// BookstoreRegistry registers the Bookstore module: books and people.
func BookstoreRegistry() *Registry {
	r, err := NewRegistry(
		Registration{
			DataSource: bookstore.BookDataSource,
			Table:      bookrepo.TableName,
			New: func(db *gorm.DB) ports.EntityRepository {
				return bookrepo.NewGormBookRepository(db)
			},
		},
		Registration{
			DataSource: bookstore.PersonDataSource,
			Table:      personrepo.TableName,
			New: func(db *gorm.DB) ports.EntityRepository {
				return personrepo.NewGormPersonRepository(db)
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(ds kernel.DataSource) (Registration, bool) {
	reg, ok := r.entries[ds.String()]
	return reg, ok
}

// Registrations returns all registrations in registration order.
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) DataSources() []kernel.DataSource {
	out := make([]kernel.DataSource, 0, len(r.order))
	for _, reg := range r.order {
		out = append(out, reg.DataSource)
	}
	return out
}
